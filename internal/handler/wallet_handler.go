package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mawaddah/mbs/internal/logic"
	"github.com/mawaddah/mbs/internal/middleware"
	"github.com/mawaddah/mbs/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WalletHandler struct {
	walletLogic *logic.WalletLogic
}

func NewWalletHandler(db *gorm.DB) *WalletHandler {
	return &WalletHandler{
		walletLogic: logic.NewWalletLogic(db),
	}
}

// GetBalance 获取当前用户钱包余额和统计
func (h *WalletHandler) GetBalance(c *gin.Context) {
	user := middleware.CurrentUser(c)

	wallet, err := h.walletLogic.GetOrCreateWallet(user.Id)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	stats, err := h.walletLogic.GetWalletStats(user.Id)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", WalletBalanceResponse{
		Balance:        wallet.Balance.StringFixed(2),
		TotalCredited:  stats.TotalCredited.StringFixed(2),
		TotalWithdrawn: stats.TotalWithdrawn.StringFixed(2),
	})
}

// GetTransactions 获取当前用户钱包流水，按时间倒序分页
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	user := middleware.CurrentUser(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	records, total, err := h.walletLogic.GetTransactions(user.Id, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", GetWalletTransactionsResponse{
		Transactions: ToWalletTransactionResponseList(records),
		Pagination:   NewPagination(page, pageSize, total),
	})
}

// WithdrawRequest 提现请求
type WithdrawRequest struct {
	Amount string `json:"amount" binding:"required"`
	Appeal *int64 `json:"appeal"`
}

// Withdraw 发起提现
// 余额充足性在这一层校验；logic层的出账本身不做限制
func (h *WalletHandler) Withdraw(c *gin.Context) {
	user := middleware.CurrentUser(c)

	// 提现方式必须已配置
	if user.WithdrawMethod == "" {
		ValidationErrorResponse(c, model.ValidationError{
			"withdraw_method": "Withdrawal method must be configured before withdrawing.",
		})
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		ValidationErrorResponse(c, model.ValidationError{"amount": "Amount must be a positive number."})
		return
	}

	wallet, err := h.walletLogic.GetOrCreateWallet(user.Id)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	if wallet.Balance.LessThan(amount) {
		ValidationErrorResponse(c, model.ValidationError{"amount": "Insufficient wallet balance."})
		return
	}

	updated, err := h.walletLogic.DebitWallet(user.Id, amount, req.Appeal, user)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "提现成功", gin.H{
		"balance": updated.Balance.StringFixed(2),
	})
}
