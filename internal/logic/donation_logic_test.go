package logic

import (
	"testing"

	"github.com/mawaddah/mbs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateDonation(t *testing.T) {
	db := setupTestDB(t)
	d := NewDonationLogic(db, 100)
	donor := createTestUser(t, db, model.RoleDonor)

	donation := &model.DonationModel{Amount: mustDecimal(t, "500")}
	require.NoError(t, d.CreateDonation(donor, donation))

	assert.Equal(t, donor.Id, donation.DonorId)
	assert.Equal(t, "PKR", donation.Currency)
	assert.Equal(t, model.DonationTypeMawalat, donation.DonationType)
	assert.NotEmpty(t, donation.TransactionId)
}

func TestCreateDonationRequiresDonorRole(t *testing.T) {
	db := setupTestDB(t)
	d := NewDonationLogic(db, 100)
	recipient := createTestUser(t, db, model.RoleRecipient)

	donation := &model.DonationModel{Amount: mustDecimal(t, "500")}
	err := d.CreateDonation(recipient, donation)
	assert.ErrorIs(t, err, ErrNotDonor)
}

func TestCreateDonationMinAmount(t *testing.T) {
	db := setupTestDB(t)
	d := NewDonationLogic(db, 100)
	donor := createTestUser(t, db, model.RoleDonor)

	donation := &model.DonationModel{Amount: mustDecimal(t, "99")}
	err := d.CreateDonation(donor, donation)
	require.Error(t, err)

	var verr model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Minimum donation amount is 100 PKR.", verr["amount"])
}

func TestCreateDonationAppealMustBeApproved(t *testing.T) {
	db := setupTestDB(t)
	d := NewDonationLogic(db, 100)
	a := NewAppealLogic(db)
	donor := createTestUser(t, db, model.RoleDonor)
	recipient := createTestUser(t, db, model.RoleRecipient)

	appeal := &model.AppealModel{
		Title:    "Pending appeal",
		Category: model.CategoryMedical,
		Amount:   mustDecimal(t, "1000"),
	}
	require.NoError(t, a.CreateAppeal(appeal, recipient))

	// 指定的申请必须处于approved状态
	donation := &model.DonationModel{Amount: mustDecimal(t, "500"), AppealId: &appeal.Id}
	err := d.CreateDonation(donor, donation)
	require.Error(t, err)
	var verr model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr, "appeal")

	// 批准后可以指定
	shura := createTestUser(t, db, model.RoleShura)
	_, err = a.ApproveAppeal(appeal.Id, shura, 30)
	require.NoError(t, err)

	require.NoError(t, d.CreateDonation(donor, donation))
	assert.Equal(t, model.DonationTypeAppealSpecific, donation.DonationType)
}

func TestGetDonationsScopedToDonor(t *testing.T) {
	db := setupTestDB(t)
	d := NewDonationLogic(db, 100)
	donorA := createTestUser(t, db, model.RoleDonor)
	donorB := createTestUser(t, db, model.RoleDonor)
	admin := createTestUser(t, db, model.RoleAdmin)

	require.NoError(t, d.CreateDonation(donorA, &model.DonationModel{Amount: mustDecimal(t, "200")}))
	require.NoError(t, d.CreateDonation(donorB, &model.DonationModel{Amount: mustDecimal(t, "300")}))

	// 捐赠者只能看到自己的记录
	donations, total, err := d.GetDonations(donorA, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, donations, 1)
	assert.Equal(t, donorA.Id, donations[0].DonorId)

	// 管理员看全部
	_, total, err = d.GetDonations(admin, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestConfirmDonation(t *testing.T) {
	db := setupTestDB(t)
	d := NewDonationLogic(db, 100)
	donor := createTestUser(t, db, model.RoleDonor)
	admin := createTestUser(t, db, model.RoleAdmin)

	donation := &model.DonationModel{Amount: mustDecimal(t, "800")}
	require.NoError(t, d.CreateDonation(donor, donation))

	// 创建捐赠不会自动入账
	s := NewSystemWalletLogic(db)
	balance, err := s.GetBalance()
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	balance, err = d.ConfirmDonation(donation.Id, admin)
	require.NoError(t, err)
	assert.Equal(t, "800.00", balance.StringFixed(2))

	// 重复确认被拒，余额不变
	_, err = d.ConfirmDonation(donation.Id, admin)
	assert.ErrorIs(t, err, ErrDonationConfirmed)

	balance, err = s.GetBalance()
	require.NoError(t, err)
	assert.Equal(t, "800.00", balance.StringFixed(2))

	// 入账流水关联了捐赠记录
	var record model.SystemWalletTransactionModel
	require.NoError(t, db.First(&record).Error)
	assert.Equal(t, model.TransactionTypeCredit, record.Type)
	require.NotNil(t, record.RelatedDonationId)
	assert.Equal(t, donation.Id, *record.RelatedDonationId)
}

func TestConfirmDonationDedupHeldUnderLock(t *testing.T) {
	db := setupTestDB(t)
	d := NewDonationLogic(db, 100)
	donor := createTestUser(t, db, model.RoleDonor)
	admin := createTestUser(t, db, model.RoleAdmin)

	donation := &model.DonationModel{Amount: mustDecimal(t, "500")}
	require.NoError(t, d.CreateDonation(donor, donation))

	// 另一次确认已先行提交入账流水，本次确认在行锁内必须发现它
	seedSystemWallet(t, db, "500")
	require.NoError(t, db.Create(&model.SystemWalletTransactionModel{
		Amount:            mustDecimal(t, "500"),
		Type:              model.TransactionTypeCredit,
		Description:       "Donation credited",
		TransferBy:        model.TransferByAdmin,
		RelatedDonationId: &donation.Id,
	}).Error)

	_, err := d.ConfirmDonation(donation.Id, admin)
	assert.ErrorIs(t, err, ErrDonationConfirmed)

	// 余额和流水都没有翻倍
	s := NewSystemWalletLogic(db)
	balance, err := s.GetBalance()
	require.NoError(t, err)
	assert.Equal(t, "500.00", balance.StringFixed(2))

	var rows int64
	require.NoError(t, db.Model(&model.SystemWalletTransactionModel{}).
		Where("related_donation_id = ?", donation.Id).
		Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	// 唯一索引兜底：同一捐赠的第二条入账流水无法落库
	err = db.Create(&model.SystemWalletTransactionModel{
		Amount:            mustDecimal(t, "500"),
		Type:              model.TransactionTypeCredit,
		TransferBy:        model.TransferBySystem,
		RelatedDonationId: &donation.Id,
	}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
