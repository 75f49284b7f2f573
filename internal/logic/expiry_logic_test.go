package logic

import (
	"testing"
	"time"

	"github.com/mawaddah/mbs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpireOverdueAppeals(t *testing.T) {
	db := setupTestDB(t)
	e := NewExpiryLogic(db)
	user := createTestUser(t, db, model.RoleRecipient)

	overdue := createApprovedAppeal(t, db, user, model.CategoryHouseRent, "100")
	past := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Model(overdue).Update("expiry_date", past).Error)

	fresh := createApprovedAppeal(t, db, user, model.CategoryMedical, "200")
	future := time.Now().AddDate(0, 0, 10)
	require.NoError(t, db.Model(fresh).Update("expiry_date", future).Error)

	// 没有有效期的申请不参与过期扫描
	createApprovedAppeal(t, db, user, model.CategorySchoolFee, "300")

	expired, err := e.ExpireOverdueAppeals(4)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	var a1, a2 model.AppealModel
	require.NoError(t, db.First(&a1, overdue.Id).Error)
	require.NoError(t, db.First(&a2, fresh.Id).Error)
	assert.Equal(t, model.AppealStatusExpired, a1.Status)
	assert.Equal(t, model.AppealStatusApproved, a2.Status)
}

func TestExpireNothingOverdue(t *testing.T) {
	db := setupTestDB(t)
	e := NewExpiryLogic(db)

	expired, err := e.ExpireOverdueAppeals(4)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}

func TestExpireSkipsFulfilled(t *testing.T) {
	db := setupTestDB(t)
	e := NewExpiryLogic(db)
	user := createTestUser(t, db, model.RoleRecipient)

	appeal := createApprovedAppeal(t, db, user, model.CategoryDebt, "100")
	past := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Model(appeal).
		Updates(map[string]interface{}{
			"expiry_date": past,
			"status":      model.AppealStatusFulfilled,
		}).Error)

	expired, err := e.ExpireOverdueAppeals(2)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}
