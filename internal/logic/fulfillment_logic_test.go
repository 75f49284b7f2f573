package logic

import (
	"testing"

	"github.com/mawaddah/mbs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFulfillApprovedAppeals(t *testing.T) {
	db := setupTestDB(t)
	f := NewFulfillmentLogic(db)
	user := createTestUser(t, db, model.RoleRecipient)
	seedSystemWallet(t, db, "1000")

	// 余额1000，两条申请700和500，按创建顺序处理
	first := createApprovedAppeal(t, db, user, model.CategoryHouseRent, "700")
	second := createApprovedAppeal(t, db, user, model.CategoryMedical, "500")

	fulfilled, err := f.FulfillApprovedAppeals()
	require.NoError(t, err)
	assert.Equal(t, 1, fulfilled)

	// 第一条拨付，余额降到300
	var wallet model.SystemWalletModel
	require.NoError(t, db.First(&wallet, model.SystemWalletId).Error)
	assert.Equal(t, "300.00", wallet.TotalBalance.StringFixed(2))

	var a1, a2 model.AppealModel
	require.NoError(t, db.First(&a1, first.Id).Error)
	require.NoError(t, db.First(&a2, second.Id).Error)
	assert.Equal(t, model.AppealStatusFulfilled, a1.Status)
	assert.NotNil(t, a1.FulfilledAt)

	// 第二条余额不足，静默跳过，状态不变
	assert.Equal(t, model.AppealStatusApproved, a2.Status)
	assert.Nil(t, a2.FulfilledAt)

	// 拨付写了一条系统钱包debit流水
	var records []model.SystemWalletTransactionModel
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, model.TransactionTypeDebit, records[0].Type)
	assert.Equal(t, "700.00", records[0].Amount.StringFixed(2))
	assert.Equal(t, model.TransferBySystem, records[0].TransferBy)
	assert.Contains(t, records[0].Description, "Funds disbursed – Appeal #")
}

func TestFulfillIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	f := NewFulfillmentLogic(db)
	user := createTestUser(t, db, model.RoleRecipient)
	seedSystemWallet(t, db, "1000")
	createApprovedAppeal(t, db, user, model.CategorySchoolFee, "400")

	fulfilled, err := f.FulfillApprovedAppeals()
	require.NoError(t, err)
	assert.Equal(t, 1, fulfilled)

	// 立即重跑不会重复拨付
	fulfilled, err = f.FulfillApprovedAppeals()
	require.NoError(t, err)
	assert.Equal(t, 0, fulfilled)

	var wallet model.SystemWalletModel
	require.NoError(t, db.First(&wallet, model.SystemWalletId).Error)
	assert.Equal(t, "600.00", wallet.TotalBalance.StringFixed(2))

	var count int64
	require.NoError(t, db.Model(&model.SystemWalletTransactionModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFulfillSkipsInsufficientFunds(t *testing.T) {
	db := setupTestDB(t)
	f := NewFulfillmentLogic(db)
	user := createTestUser(t, db, model.RoleRecipient)
	seedSystemWallet(t, db, "100")
	appeal := createApprovedAppeal(t, db, user, model.CategoryUtilityBills, "900")

	// 余额不足不是错误：跳过后留待下一轮
	fulfilled, err := f.FulfillApprovedAppeals()
	require.NoError(t, err)
	assert.Equal(t, 0, fulfilled)

	var wallet model.SystemWalletModel
	require.NoError(t, db.First(&wallet, model.SystemWalletId).Error)
	assert.Equal(t, "100.00", wallet.TotalBalance.StringFixed(2))

	var reloaded model.AppealModel
	require.NoError(t, db.First(&reloaded, appeal.Id).Error)
	assert.Equal(t, model.AppealStatusApproved, reloaded.Status)

	// 补足余额后下一轮拨付成功
	require.NoError(t, db.Model(&model.SystemWalletModel{}).
		Where("id = ?", model.SystemWalletId).
		Update("total_balance", mustDecimal(t, "1000")).Error)

	fulfilled, err = f.FulfillApprovedAppeals()
	require.NoError(t, err)
	assert.Equal(t, 1, fulfilled)
}

func TestFulfillWithNoSystemWallet(t *testing.T) {
	db := setupTestDB(t)
	f := NewFulfillmentLogic(db)
	user := createTestUser(t, db, model.RoleRecipient)
	createApprovedAppeal(t, db, user, model.CategoryOther, "50")

	// 系统钱包不存在时自动创建（余额为零），申请全部跳过
	fulfilled, err := f.FulfillApprovedAppeals()
	require.NoError(t, err)
	assert.Equal(t, 0, fulfilled)

	var wallet model.SystemWalletModel
	require.NoError(t, db.First(&wallet, model.SystemWalletId).Error)
	assert.True(t, wallet.TotalBalance.IsZero())
}
