package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonationModel 捐赠记录
type DonationModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	DonorId  int64           `json:"donor" gorm:"not null;index"` // 必须为donor角色
	Amount   decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Currency string          `json:"currency" gorm:"type:varchar(8);default:'PKR'"`

	DonationType DonationType `json:"donation_type" gorm:"type:varchar(20);default:'mawalat_al_qurba';index"`

	// 可选：捐赠者指定某个申请（提交时必须为approved状态）
	AppealId *int64 `json:"appeal"`
	Note     string `json:"note" gorm:"type:text"`

	// 支付元数据（仅存储，不对接支付网关）
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"type:varchar(16)"`
	TransactionId string        `json:"transaction_id" gorm:"size:128"`
	ReceiptURL    string        `json:"receipt_url" gorm:"size:255"`
}

// DonationType 捐赠类型
type DonationType string

const (
	DonationTypeMawalat        DonationType = "mawalat_al_qurba" // Mawalat al-Qurba
	DonationTypeGeneral        DonationType = "general"          // 通用捐赠
	DonationTypeAppealSpecific DonationType = "appeal_specific"  // 指定申请
)

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentMethodStripe       PaymentMethod = "stripe"
	PaymentMethodJazzCash     PaymentMethod = "jazzcash"
	PaymentMethodEasyPaisa    PaymentMethod = "easypaisa"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodManual       PaymentMethod = "manual"
)

// TableName 自定义表名
func (DonationModel) TableName() string {
	return "donations"
}
