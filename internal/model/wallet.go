package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletModel 受助人钱包，和用户一对一
type WalletModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserId  int64           `json:"user" gorm:"uniqueIndex;not null"`
	Balance decimal.Decimal `json:"balance" gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName 自定义表名
func (WalletModel) TableName() string {
	return "wallet"
}

// WalletTransactionModel 钱包流水，只增不改
// 不变量: wallet.balance == sum(credit) - sum(debit)，余额变更和流水写入在同一事务内完成
type WalletTransactionModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	WalletId int64           `json:"wallet" gorm:"not null;index"`
	Type     TransactionType `json:"type" gorm:"type:varchar(8);not null"`
	Amount   decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`

	AppealId *int64 `json:"appeal"`
	DonorId  *int64 `json:"donor"`

	Description string     `json:"description" gorm:"size:255"`
	TransferBy  TransferBy `json:"transfer_by" gorm:"type:varchar(20)"`
}

// TransactionType 流水类型
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit" // 入账
	TransactionTypeDebit  TransactionType = "debit"  // 出账
)

// TransferBy 流水归因：由谁发起
type TransferBy string

const (
	TransferByDonor  TransferBy = "Donor"
	TransferByAdmin  TransferBy = "Admin"
	TransferBySystem TransferBy = "System"
)

// TableName 自定义表名
func (WalletTransactionModel) TableName() string {
	return "wallet_transaction"
}
