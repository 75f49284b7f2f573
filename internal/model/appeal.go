package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppealModel 资助申请模型
type AppealModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_appeal_active,priority:4"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title       string          `json:"title" gorm:"size:100;not null" binding:"required"`
	Description string          `json:"description" gorm:"type:text"`
	Category    AppealCategory  `json:"category" gorm:"type:varchar(32);not null;index:idx_appeal_active,priority:1" binding:"required"`
	Amount      decimal.Decimal `json:"amount_requested" gorm:"column:amount_requested;type:decimal(12,2);not null"`

	// 按月资助
	IsMonthly      bool `json:"is_monthly" gorm:"default:false"`
	MonthsRequired *int `json:"months_required"` // is_monthly为true时必填，1-6

	// 状态
	Status   AppealStatus `json:"status" gorm:"type:varchar(16);default:'pending';index:idx_appeal_active,priority:2"`
	IsUrgent bool         `json:"is_urgent" gorm:"default:false"`

	// 关联用户
	CreatedById   int64 `json:"created_by" gorm:"not null"`
	BeneficiaryId int64 `json:"beneficiary" gorm:"not null;index:idx_appeal_active,priority:3"`

	// 捐赠关联（用于标记由捐赠者直接认领的申请）
	LinkedDonationId *int64 `json:"linked_donation"`

	// 操作轨迹
	ApprovedById    *int64     `json:"approved_by"`
	RejectedById    *int64     `json:"rejected_by"`
	CancelledById   *int64     `json:"cancelled_by"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectedAt      *time.Time `json:"rejected_at"`
	CancelledAt     *time.Time `json:"cancelled_at"`
	FulfilledAt     *time.Time `json:"fulfilled_at"`
	ExpiryDate      *time.Time `json:"expiry_date"`
	RejectionReason string     `json:"rejection_reason" gorm:"size:255"`
}

// AppealCategory 申请类别
type AppealCategory string

const (
	CategoryHouseRent       AppealCategory = "house_rent"       // 房租
	CategorySchoolFee       AppealCategory = "school_fee"       // 学费
	CategoryMedical         AppealCategory = "medical"          // 医疗
	CategoryUtilityBills    AppealCategory = "utility_bills"    // 水电费
	CategoryDebt            AppealCategory = "debt"             // 债务
	CategoryBusinessSupport AppealCategory = "business_support" // 经营扶持
	CategoryDeathSupport    AppealCategory = "death_support"    // 丧葬抚恤
	CategoryOther           AppealCategory = "other"            // 其他
)

// AppealCategories 全部申请类别
var AppealCategories = []AppealCategory{
	CategoryHouseRent, CategorySchoolFee, CategoryMedical, CategoryUtilityBills,
	CategoryDebt, CategoryBusinessSupport, CategoryDeathSupport, CategoryOther,
}

// AppealStatus 申请状态
type AppealStatus string

const (
	AppealStatusPending   AppealStatus = "pending"   // 待审核
	AppealStatusApproved  AppealStatus = "approved"  // 已批准
	AppealStatusRejected  AppealStatus = "rejected"  // 已驳回
	AppealStatusFulfilled AppealStatus = "fulfilled" // 已拨付
	AppealStatusExpired   AppealStatus = "expired"   // 已过期
	AppealStatusCancelled AppealStatus = "cancelled" // 已取消
)

// TableName 自定义表名
func (AppealModel) TableName() string {
	return "appeal"
}

// IsDonorLinked 是否由捐赠者认领
func (a *AppealModel) IsDonorLinked() bool {
	return a.LinkedDonationId != nil
}

// FulfillmentSource 拨付来源：donor（捐赠者认领）、platform（平台拨付）、空串
func (a *AppealModel) FulfillmentSource() string {
	if a.LinkedDonationId != nil {
		return "donor"
	}
	if a.Status == AppealStatusApproved {
		return "platform"
	}
	return ""
}

// IsActive 是否占用受助人当月类别名额（pending/approved）
func (a *AppealModel) IsActive() bool {
	return a.Status == AppealStatusPending || a.Status == AppealStatusApproved
}

// IsTerminal 是否为终态
func (a *AppealModel) IsTerminal() bool {
	switch a.Status {
	case AppealStatusFulfilled, AppealStatusRejected, AppealStatusCancelled, AppealStatusExpired:
		return true
	}
	return false
}

// ValidCategory 校验类别取值
func ValidCategory(c AppealCategory) bool {
	for _, known := range AppealCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Validate 校验字段一致性规则（跨记录的唯一性规则在logic层校验）
func (a *AppealModel) Validate() error {
	errs := ValidationError{}

	if !ValidCategory(a.Category) {
		errs["category"] = "Invalid appeal category."
	}

	if a.Amount.LessThanOrEqual(decimal.Zero) {
		errs["amount_requested"] = "Amount must be greater than zero."
	}

	// 规则: 按月资助时，月数必须在1-6之间
	if a.IsMonthly {
		if a.MonthsRequired == nil || *a.MonthsRequired < 1 || *a.MonthsRequired > 6 {
			errs["months_required"] = "Must be between 1 and 6 if is_monthly is True."
		}
	}

	// 规则: 驳回必须填写原因
	if a.Status == AppealStatusRejected && a.RejectionReason == "" {
		errs["rejection_reason"] = "Rejection reason required if status is rejected."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
