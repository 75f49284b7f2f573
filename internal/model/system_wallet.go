package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SystemWalletId 系统钱包单例主键
const SystemWalletId int64 = 1

// SystemWalletModel 平台资金池，单例（id固定为1）
// 只允许在持有行锁的事务内修改余额
type SystemWalletModel struct {
	Id           int64           `json:"id" gorm:"primaryKey"`
	TotalBalance decimal.Decimal `json:"total_balance" gorm:"type:decimal(12,2);not null;default:0"`
	LastUpdated  time.Time       `json:"last_updated" gorm:"autoUpdateTime"`
}

// TableName 自定义表名
func (SystemWalletModel) TableName() string {
	return "system_wallet"
}

// SystemWalletTransactionModel 系统钱包流水（拨付和捐赠确认使用），只增不改
type SystemWalletTransactionModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Amount decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Type   TransactionType `json:"type" gorm:"type:varchar(8);not null"`

	Description string     `json:"description" gorm:"size:255"`
	TransferBy  TransferBy `json:"transfer_by" gorm:"type:varchar(20)"`

	RelatedDonationId *int64 `json:"related_donation" gorm:"uniqueIndex"`
}

// TableName 自定义表名
func (SystemWalletTransactionModel) TableName() string {
	return "system_wallet_transaction"
}
