package logic

import (
	"testing"

	"github.com/mawaddah/mbs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	u := NewUserLogic(db)

	user := &model.UserModel{
		Email:     "Donor@Example.com",
		Phone:     "03001234567",
		FirstName: "Ali",
		LastName:  "Raza",
		Role:      model.RoleDonor,
	}
	require.NoError(t, u.Register(user, "secret-password"))
	assert.NotZero(t, user.Id)
	// 邮箱归一化为小写
	assert.Equal(t, "donor@example.com", user.Email)
	assert.NotEqual(t, "secret-password", user.PasswordHash)

	logged, err := u.Login("donor@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, user.Id, logged.Id)

	_, err = u.Login("donor@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = u.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	u := NewUserLogic(db)

	first := &model.UserModel{Email: "a@example.com", Phone: "03001111111"}
	require.NoError(t, u.Register(first, "password123"))

	dup := &model.UserModel{Email: "a@example.com", Phone: "03002222222"}
	err := u.Register(dup, "password123")
	require.Error(t, err)
	var verr model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr, "email")
}

func TestRegisterPasswordTooShort(t *testing.T) {
	db := setupTestDB(t)
	u := NewUserLogic(db)

	user := &model.UserModel{Email: "b@example.com", Phone: "03003333333"}
	err := u.Register(user, "short")
	require.Error(t, err)
	var verr model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr, "password")
}

func TestRegisterRecipientMustBeVerified(t *testing.T) {
	db := setupTestDB(t)
	u := NewUserLogic(db)

	user := &model.UserModel{
		Email: "r@example.com",
		Phone: "03004444444",
		Role:  model.RoleRecipient,
	}
	err := u.Register(user, "password123")
	require.Error(t, err)
	var verr model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr, "is_verified_syed")
}

func TestUpdateProfileWithdrawFields(t *testing.T) {
	db := setupTestDB(t)
	u := NewUserLogic(db)

	user := &model.UserModel{
		Email:          "w@example.com",
		Phone:          "03005555555",
		Role:           model.RoleRecipient,
		IsVerifiedSyed: true,
	}
	require.NoError(t, u.Register(user, "password123"))

	// 选择银行转账必须提供完整账户信息
	method := model.WithdrawMethodBank
	_, err := u.UpdateProfile(user.Id, ProfileUpdate{WithdrawMethod: &method})
	require.Error(t, err)
	var verr model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr, "account_title")
	assert.Contains(t, verr, "account_number")
	assert.Contains(t, verr, "bank_name")

	title := "Ali Raza"
	number := "PK00HABB0000001234567890"
	bank := "Habib Bank"
	updated, err := u.UpdateProfile(user.Id, ProfileUpdate{
		WithdrawMethod: &method,
		AccountTitle:   &title,
		AccountNumber:  &number,
		BankName:       &bank,
	})
	require.NoError(t, err)
	assert.Equal(t, model.WithdrawMethodBank, updated.WithdrawMethod)
	assert.Equal(t, bank, updated.BankName)
}

func TestDuplicateUserKeyTranslated(t *testing.T) {
	db := setupTestDB(t)
	u := NewUserLogic(db)

	user := &model.UserModel{Email: "taken@example.com", Phone: "03001112233", Role: model.RoleDonor}
	require.NoError(t, u.Register(user, "password123"))

	// 唯一索引冲突被翻译为 gorm.ErrDuplicatedKey，注册路径据此返回字段级错误
	dup := model.UserModel{
		Email:        "taken@example.com",
		Phone:        "03009998877",
		PasswordHash: "x",
		Role:         model.RoleDonor,
		IsActive:     true,
	}
	err := db.Create(&dup).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	other := &model.UserModel{Email: "taken@example.com", Phone: "03009998877", Role: model.RoleDonor}
	err = u.Register(other, "password123")
	var verr model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr["email"], "already exists")
}
