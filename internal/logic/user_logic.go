package logic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mawaddah/mbs/internal/auth"
	"github.com/mawaddah/mbs/internal/logger"
	"github.com/mawaddah/mbs/internal/model"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("用户不存在")
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserLogic 用户业务逻辑
type UserLogic struct {
	db *gorm.DB
}

// NewUserLogic 创建用户业务逻辑
func NewUserLogic(db *gorm.DB) *UserLogic {
	return &UserLogic{db: db}
}

// Register 注册新用户
func (u *UserLogic) Register(user *model.UserModel, password string) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = model.RoleUser
	}

	errs := model.ValidationError{}
	if user.Email == "" {
		errs["email"] = "Email is required."
	}
	if user.Phone == "" {
		errs["phone"] = "Phone is required."
	}
	if len(password) < 8 {
		errs["password"] = "Password must be at least 8 characters."
	}
	if len(errs) > 0 {
		return errs
	}

	if err := user.Validate(); err != nil {
		return err
	}

	var count int64
	if err := u.db.Model(&model.UserModel{}).
		Where("email = ? OR phone = ?", user.Email, user.Phone).
		Count(&count).Error; err != nil {
		return fmt.Errorf("校验用户唯一性失败: %w", err)
	}
	if count > 0 {
		return model.ValidationError{"email": "A user with this email or phone already exists."}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("生成密码哈希失败: %w", err)
	}
	user.PasswordHash = hash
	user.IsActive = true

	if err := u.db.Create(user).Error; err != nil {
		// 预检查之后、插入之前另一请求抢先注册时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.ValidationError{"email": "A user with this email or phone already exists."}
		}
		return fmt.Errorf("创建用户失败: %w", err)
	}
	logger.Info("User %d registered with role %s", user.Id, user.Role)
	return nil
}

// Login 校验凭证，成功返回用户
func (u *UserLogic) Login(email, password string) (*model.UserModel, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.UserModel
	err := u.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("校验密码失败: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetUser 按ID获取用户
func (u *UserLogic) GetUser(id int64) (*model.UserModel, error) {
	var user model.UserModel
	if err := u.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("获取用户失败: %w", err)
	}
	return &user, nil
}

// ProfileUpdate 允许用户自行更新的字段
type ProfileUpdate struct {
	FirstName      *string
	LastName       *string
	Country        *string
	State          *string
	City           *string
	Language       *string
	WithdrawMethod *model.WithdrawMethod
	AccountTitle   *string
	AccountNumber  *string
	BankName       *string
}

// UpdateProfile 更新用户资料，更新后重新校验条件必填规则
func (u *UserLogic) UpdateProfile(id int64, update ProfileUpdate) (*model.UserModel, error) {
	user, err := u.GetUser(id)
	if err != nil {
		return nil, err
	}

	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Country != nil {
		user.Country = *update.Country
	}
	if update.State != nil {
		user.State = *update.State
	}
	if update.City != nil {
		user.City = *update.City
	}
	if update.Language != nil {
		user.Language = *update.Language
	}
	if update.WithdrawMethod != nil {
		user.WithdrawMethod = *update.WithdrawMethod
	}
	if update.AccountTitle != nil {
		user.AccountTitle = *update.AccountTitle
	}
	if update.AccountNumber != nil {
		user.AccountNumber = *update.AccountNumber
	}
	if update.BankName != nil {
		user.BankName = *update.BankName
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := u.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("更新用户资料失败: %w", err)
	}
	return user, nil
}
