package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func monthsPtr(v int) *int {
	return &v
}

func TestAppealValidate(t *testing.T) {
	base := AppealModel{
		Title:    "Rent",
		Category: CategoryHouseRent,
		Amount:   decimal.NewFromInt(1000),
		Status:   AppealStatusPending,
	}

	tests := []struct {
		name    string
		mutate  func(a *AppealModel)
		wantKey string
	}{
		{"valid", func(a *AppealModel) {}, ""},
		{"bad category", func(a *AppealModel) { a.Category = "groceries" }, "category"},
		{"zero amount", func(a *AppealModel) { a.Amount = decimal.Zero }, "amount_requested"},
		{"monthly without months", func(a *AppealModel) { a.IsMonthly = true }, "months_required"},
		{"monthly months too high", func(a *AppealModel) {
			a.IsMonthly = true
			a.MonthsRequired = monthsPtr(7)
		}, "months_required"},
		{"monthly months ok", func(a *AppealModel) {
			a.IsMonthly = true
			a.MonthsRequired = monthsPtr(3)
		}, ""},
		{"rejected without reason", func(a *AppealModel) { a.Status = AppealStatusRejected }, "rejection_reason"},
		{"rejected with reason", func(a *AppealModel) {
			a.Status = AppealStatusRejected
			a.RejectionReason = "incomplete"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appeal := base
			tt.mutate(&appeal)
			err := appeal.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			var verr ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Contains(t, verr, tt.wantKey)
		})
	}
}

func TestAppealStateHelpers(t *testing.T) {
	appeal := AppealModel{Status: AppealStatusPending}
	assert.True(t, appeal.IsActive())
	assert.False(t, appeal.IsTerminal())

	appeal.Status = AppealStatusApproved
	assert.True(t, appeal.IsActive())
	assert.Equal(t, "platform", appeal.FulfillmentSource())

	for _, status := range []AppealStatus{
		AppealStatusFulfilled, AppealStatusRejected, AppealStatusCancelled, AppealStatusExpired,
	} {
		appeal.Status = status
		assert.False(t, appeal.IsActive())
		assert.True(t, appeal.IsTerminal())
	}

	donation := int64(9)
	appeal.LinkedDonationId = &donation
	assert.True(t, appeal.IsDonorLinked())
	assert.Equal(t, "donor", appeal.FulfillmentSource())
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{
		"b_field": "second",
		"a_field": "first",
	}
	// 字段按名称排序，输出稳定
	assert.Equal(t, "a_field: first; b_field: second", err.Error())
}
