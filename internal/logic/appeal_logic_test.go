package logic

import (
	"testing"
	"time"

	"github.com/mawaddah/mbs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestCreateAppeal(t *testing.T) {
	db := setupTestDB(t)
	a := NewAppealLogic(db)
	recipient := createTestUser(t, db, model.RoleRecipient)

	appeal := &model.AppealModel{
		Title:    "Rent support",
		Category: model.CategoryHouseRent,
		Amount:   mustDecimal(t, "15000"),
	}
	require.NoError(t, a.CreateAppeal(appeal, recipient))

	assert.Equal(t, model.AppealStatusPending, appeal.Status)
	assert.Equal(t, recipient.Id, appeal.CreatedById)
	assert.Equal(t, recipient.Id, appeal.BeneficiaryId)
}

func TestCreateAppealMonthsRequired(t *testing.T) {
	db := setupTestDB(t)
	a := NewAppealLogic(db)
	recipient := createTestUser(t, db, model.RoleRecipient)

	// 按月资助时月数必须在1-6之间
	appeal := &model.AppealModel{
		Title:          "School fees",
		Category:       model.CategorySchoolFee,
		Amount:         mustDecimal(t, "5000"),
		IsMonthly:      true,
		MonthsRequired: intPtr(7),
	}
	err := a.CreateAppeal(appeal, recipient)
	require.Error(t, err)

	var verr model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr, "months_required")

	// 月数未填同样被拒
	appeal.MonthsRequired = nil
	err = a.CreateAppeal(appeal, recipient)
	require.Error(t, err)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr, "months_required")

	// 合法月数通过
	appeal.MonthsRequired = intPtr(6)
	require.NoError(t, a.CreateAppeal(appeal, recipient))
}

func TestActiveAppealLimit(t *testing.T) {
	db := setupTestDB(t)
	a := NewAppealLogic(db)
	recipient := createTestUser(t, db, model.RoleRecipient)
	admin := createTestUser(t, db, model.RoleAdmin)

	first := &model.AppealModel{
		Title:    "Medical bill",
		Category: model.CategoryMedical,
		Amount:   mustDecimal(t, "8000"),
	}
	require.NoError(t, a.CreateAppeal(first, recipient))

	// 同月同类别第二条被拒
	second := &model.AppealModel{
		Title:    "Another medical bill",
		Category: model.CategoryMedical,
		Amount:   mustDecimal(t, "3000"),
	}
	err := a.CreateAppeal(second, recipient)
	require.Error(t, err)
	var verr model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Only one active appeal per user per category per month is allowed.", verr["appeal"])

	// 不同类别不受限
	other := &model.AppealModel{
		Title:    "Utility bill",
		Category: model.CategoryUtilityBills,
		Amount:   mustDecimal(t, "2000"),
	}
	require.NoError(t, a.CreateAppeal(other, recipient))

	// 驳回第一条后，同类别可以重新提交
	_, err = a.RejectAppeal(first.Id, admin, "insufficient documentation")
	require.NoError(t, err)
	require.NoError(t, a.CreateAppeal(second, recipient))
}

func TestApproveAppeal(t *testing.T) {
	db := setupTestDB(t)
	a := NewAppealLogic(db)
	recipient := createTestUser(t, db, model.RoleRecipient)
	shura := createTestUser(t, db, model.RoleShura)

	appeal := &model.AppealModel{
		Title:    "Debt relief",
		Category: model.CategoryDebt,
		Amount:   mustDecimal(t, "20000"),
	}
	require.NoError(t, a.CreateAppeal(appeal, recipient))

	approved, err := a.ApproveAppeal(appeal.Id, shura, 30)
	require.NoError(t, err)
	assert.Equal(t, model.AppealStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedById)
	assert.Equal(t, shura.Id, *approved.ApprovedById)
	assert.NotNil(t, approved.ApprovedAt)
	require.NotNil(t, approved.ExpiryDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *approved.ExpiryDate, time.Minute)

	// 已批准的申请不能再批准
	_, err = a.ApproveAppeal(appeal.Id, shura, 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not pending")
}

func TestRejectAppealRequiresReason(t *testing.T) {
	db := setupTestDB(t)
	a := NewAppealLogic(db)
	recipient := createTestUser(t, db, model.RoleRecipient)
	shura := createTestUser(t, db, model.RoleShura)

	appeal := &model.AppealModel{
		Title:    "Business support",
		Category: model.CategoryBusinessSupport,
		Amount:   mustDecimal(t, "50000"),
	}
	require.NoError(t, a.CreateAppeal(appeal, recipient))

	_, err := a.RejectAppeal(appeal.Id, shura, "  ")
	require.Error(t, err)
	var verr model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr, "rejection_reason")

	rejected, err := a.RejectAppeal(appeal.Id, shura, "not eligible")
	require.NoError(t, err)
	assert.Equal(t, model.AppealStatusRejected, rejected.Status)
	assert.Equal(t, "not eligible", rejected.RejectionReason)
	require.NotNil(t, rejected.RejectedById)
	assert.Equal(t, shura.Id, *rejected.RejectedById)
}

func TestCancelAppeal(t *testing.T) {
	db := setupTestDB(t)
	a := NewAppealLogic(db)
	recipient := createTestUser(t, db, model.RoleRecipient)
	shura := createTestUser(t, db, model.RoleShura)

	appeal := &model.AppealModel{
		Title:    "Death support",
		Category: model.CategoryDeathSupport,
		Amount:   mustDecimal(t, "10000"),
	}
	require.NoError(t, a.CreateAppeal(appeal, recipient))

	// 批准后仍然可以取消
	_, err := a.ApproveAppeal(appeal.Id, shura, 30)
	require.NoError(t, err)
	cancelled, err := a.CancelAppeal(appeal.Id, recipient)
	require.NoError(t, err)
	assert.Equal(t, model.AppealStatusCancelled, cancelled.Status)

	// 终态不能再取消
	_, err = a.CancelAppeal(appeal.Id, recipient)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be cancelled")
}

func TestUpdateAppealOnlyPending(t *testing.T) {
	db := setupTestDB(t)
	a := NewAppealLogic(db)
	recipient := createTestUser(t, db, model.RoleRecipient)
	shura := createTestUser(t, db, model.RoleShura)

	appeal := &model.AppealModel{
		Title:    "Rent",
		Category: model.CategoryHouseRent,
		Amount:   mustDecimal(t, "12000"),
	}
	require.NoError(t, a.CreateAppeal(appeal, recipient))

	newTitle := "Rent for October"
	updated, err := a.UpdateAppeal(appeal.Id, AppealUpdate{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)

	_, err = a.ApproveAppeal(appeal.Id, shura, 30)
	require.NoError(t, err)

	_, err = a.UpdateAppeal(appeal.Id, AppealUpdate{Title: &newTitle})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not pending")
}

func TestGetAppealsFilteredStats(t *testing.T) {
	db := setupTestDB(t)
	a := NewAppealLogic(db)
	recipient := createTestUser(t, db, model.RoleRecipient)
	shura := createTestUser(t, db, model.RoleShura)

	pending := &model.AppealModel{
		Title:    "Pending one",
		Category: model.CategoryMedical,
		Amount:   mustDecimal(t, "100"),
	}
	require.NoError(t, a.CreateAppeal(pending, recipient))

	toApprove := &model.AppealModel{
		Title:    "Approved one",
		Category: model.CategorySchoolFee,
		Amount:   mustDecimal(t, "200"),
	}
	require.NoError(t, a.CreateAppeal(toApprove, recipient))
	_, err := a.ApproveAppeal(toApprove.Id, shura, 30)
	require.NoError(t, err)

	appeals, total, stats, err := a.GetAppeals("", "", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, appeals, 2)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Approved)

	// 状态过滤不影响filtered stats的统计口径
	appeals, total, stats, err = a.GetAppeals("pending", "", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, appeals, 1)
	assert.Equal(t, int64(1), stats.Approved)
}

func TestGetAppealNotFound(t *testing.T) {
	db := setupTestDB(t)
	a := NewAppealLogic(db)

	_, err := a.GetAppeal(999)
	assert.ErrorIs(t, err, ErrAppealNotFound)
}
