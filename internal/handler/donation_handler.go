package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mawaddah/mbs/internal/logic"
	"github.com/mawaddah/mbs/internal/middleware"
	"github.com/mawaddah/mbs/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DonationHandler struct {
	donationLogic *logic.DonationLogic
}

func NewDonationHandler(db *gorm.DB, minAmount int64) *DonationHandler {
	return &DonationHandler{
		donationLogic: logic.NewDonationLogic(db, minAmount),
	}
}

// CreateDonationRequest 创建捐赠请求
type CreateDonationRequest struct {
	Amount        string              `json:"amount" binding:"required"`
	Currency      string              `json:"currency"`
	DonationType  model.DonationType  `json:"donation_type"`
	Appeal        *int64              `json:"appeal"`
	Note          string              `json:"note"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	ReceiptURL    string              `json:"receipt_url"`
}

// CreateDonation 创建捐赠
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		ValidationErrorResponse(c, model.ValidationError{"amount": "Invalid amount format."})
		return
	}

	donation := model.DonationModel{
		Amount:        amount,
		Currency:      req.Currency,
		DonationType:  req.DonationType,
		AppealId:      req.Appeal,
		Note:          req.Note,
		PaymentMethod: req.PaymentMethod,
		ReceiptURL:    req.ReceiptURL,
	}
	if err := h.donationLogic.CreateDonation(user, &donation); err != nil {
		if errors.Is(err, logic.ErrNotDonor) {
			ErrorResponse(c, http.StatusForbidden, err.Error())
			return
		}
		HandleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "捐赠创建成功", ToDonationResponse(&donation))
}

// GetDonations 获取捐赠列表
func (h *DonationHandler) GetDonations(c *gin.Context) {
	user := middleware.CurrentUser(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	donations, total, err := h.donationLogic.GetDonations(user, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"donations":  ToDonationResponseList(donations),
		"pagination": NewPagination(page, pageSize, total),
	})
}

// ConfirmDonation 确认捐赠入账，将金额计入系统钱包
func (h *DonationHandler) ConfirmDonation(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的捐赠ID")
		return
	}

	balance, err := h.donationLogic.ConfirmDonation(id, user)
	if err != nil {
		if errors.Is(err, logic.ErrDonationConfirmed) {
			ErrorResponse(c, http.StatusConflict, err.Error())
			return
		}
		HandleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "捐赠已确认入账", gin.H{
		"system_wallet_balance": balance.StringFixed(2),
	})
}
