package logic

import (
	"github.com/shopspring/decimal"
)

// parseAmount 解析金额字符串为定点数
func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
