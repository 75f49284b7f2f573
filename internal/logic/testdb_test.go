package logic

import (
	"fmt"
	"testing"

	"github.com/mawaddah/mbs/internal/database"
	"github.com/mawaddah/mbs/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// setupTestDB 每个测试一个独立的内存数据库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true,
		},
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role model.UserRole) *model.UserModel {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.UserModel{}).Count(&count).Error)

	user := &model.UserModel{
		Email:        fmt.Sprintf("user%d@example.com", count+1),
		Phone:        fmt.Sprintf("0300%07d", count+1),
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User%d", count+1),
		Role:         role,
		IsActive:     true,
	}
	if role == model.RoleRecipient {
		user.IsVerifiedSyed = true
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createApprovedAppeal(t *testing.T, db *gorm.DB, beneficiary *model.UserModel,
	category model.AppealCategory, amount string) *model.AppealModel {
	t.Helper()

	appeal := &model.AppealModel{
		Title:         "Test appeal",
		Category:      category,
		Amount:        mustDecimal(t, amount),
		Status:        model.AppealStatusApproved,
		CreatedById:   beneficiary.Id,
		BeneficiaryId: beneficiary.Id,
	}
	require.NoError(t, db.Create(appeal).Error)
	return appeal
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedSystemWallet(t *testing.T, db *gorm.DB, balance string) {
	t.Helper()
	wallet := model.SystemWalletModel{
		Id:           model.SystemWalletId,
		TotalBalance: mustDecimal(t, balance),
	}
	require.NoError(t, db.Create(&wallet).Error)
}
