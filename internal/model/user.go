package model

import (
	"strings"
	"time"
)

// UserModel 用户模型，涵盖捐赠者、受助人、Shura成员和管理员
type UserModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 身份信息
	Email        string `json:"email" gorm:"uniqueIndex;not null" binding:"required,email"`
	Phone        string `json:"phone" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`

	// 角色管理
	Role           UserRole `json:"role" gorm:"type:varchar(20);default:'user'"`
	IsVerifiedSyed bool     `json:"is_verified_syed" gorm:"default:false"` // 只有认证的Sadaat可以提交申请

	// 地区信息
	Country string `json:"country" gorm:"default:'Pakistan'"`
	State   string `json:"state"`
	City    string `json:"city"`

	// 提现信息（按提现方式条件必填）
	WithdrawMethod WithdrawMethod `json:"withdraw_method" gorm:"type:varchar(20)"`
	AccountTitle   string         `json:"account_title"`
	AccountNumber  string         `json:"account_number"`
	BankName       string         `json:"bank_name"`

	// 偏好
	Language string `json:"language" gorm:"type:varchar(8);default:'en'"` // en, ur

	IsActive bool `json:"is_active" gorm:"default:true"`
}

// UserRole 用户角色
type UserRole string

const (
	RoleUser      UserRole = "user"      // 普通用户
	RoleDonor     UserRole = "donor"     // 捐赠者
	RoleRecipient UserRole = "recipient" // 受助人
	RoleShura     UserRole = "shura"     // Shura评审成员
	RoleAdmin     UserRole = "admin"     // 管理员
)

// WithdrawMethod 提现方式
type WithdrawMethod string

const (
	WithdrawMethodBank      WithdrawMethod = "bank"
	WithdrawMethodJazzCash  WithdrawMethod = "jazzcash"
	WithdrawMethodEasyPaisa WithdrawMethod = "easypaisa"
)

// TableName 自定义表名
func (UserModel) TableName() string {
	return "users"
}

// FullName 用户全名，为空时回退到邮箱
func (u *UserModel) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// IsRecipient 是否为受助人
func (u *UserModel) IsRecipient() bool {
	return u.Role == RoleRecipient
}

// IsDonor 是否为捐赠者
func (u *UserModel) IsDonor() bool {
	return u.Role == RoleDonor
}

// IsShura 是否为Shura成员
func (u *UserModel) IsShura() bool {
	return u.Role == RoleShura
}

// IsAdmin 是否为管理员
func (u *UserModel) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanSubmitAppeals 是否可以提交申请（认证的受助人）
func (u *UserModel) CanSubmitAppeals() bool {
	return u.IsRecipient() && u.IsVerifiedSyed
}

// Validate 校验用户字段规则
func (u *UserModel) Validate() error {
	errs := ValidationError{}

	// 规则1: 受助人必须是认证的Sadaat
	if u.Role == RoleRecipient && !u.IsVerifiedSyed {
		errs["is_verified_syed"] = "Recipients must be verified Sadaat."
	}

	// 规则2: 指定提现方式时，账户信息必填
	if u.WithdrawMethod != "" {
		if u.AccountTitle == "" {
			errs["account_title"] = "Account title is required when withdrawal method is specified."
		}
		if u.AccountNumber == "" {
			errs["account_number"] = "Account number is required when withdrawal method is specified."
		}
		// 规则3: 银行转账必须提供银行名称
		if u.WithdrawMethod == WithdrawMethodBank && u.BankName == "" {
			errs["bank_name"] = "Bank name is required when withdrawal method is bank."
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
