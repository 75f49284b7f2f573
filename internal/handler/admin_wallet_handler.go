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

type AdminWalletHandler struct {
	walletLogic      *logic.WalletLogic
	systemLogic      *logic.SystemWalletLogic
	dashboardLogic   *logic.DashboardLogic
	fulfillmentLogic *logic.FulfillmentLogic
}

func NewAdminWalletHandler(db *gorm.DB) *AdminWalletHandler {
	return &AdminWalletHandler{
		walletLogic:      logic.NewWalletLogic(db),
		systemLogic:      logic.NewSystemWalletLogic(db),
		dashboardLogic:   logic.NewDashboardLogic(db),
		fulfillmentLogic: logic.NewFulfillmentLogic(db),
	}
}

// GetOverview 平台钱包总览
func (h *AdminWalletHandler) GetOverview(c *gin.Context) {
	overview, err := h.dashboardLogic.GetPlatformOverview()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "", overview)
}

// GetRecipients 受助人钱包统计，按当前余额降序
func (h *AdminWalletHandler) GetRecipients(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	stats, total, err := h.dashboardLogic.GetRecipientWalletStats(page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"recipients": stats,
		"pagination": NewPagination(page, pageSize, total),
	})
}

// GetRecipientWithdrawals 单个受助人的提现历史
func (h *AdminWalletHandler) GetRecipientWithdrawals(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	entries, err := h.dashboardLogic.GetRecipientWithdrawals(id)
	if err != nil {
		HandleLogicError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", entries)
}

// GetRecipientTransfers 单个受助人收到的入账历史
func (h *AdminWalletHandler) GetRecipientTransfers(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	entries, err := h.dashboardLogic.GetRecipientTransfers(id)
	if err != nil {
		HandleLogicError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", entries)
}

// GetTransactions 全平台钱包流水，支持按姓名或邮箱搜索
func (h *AdminWalletHandler) GetTransactions(c *gin.Context) {
	search := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	transactions, total, err := h.dashboardLogic.GetAdminTransactions(search, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"transactions": transactions,
		"pagination":   NewPagination(page, pageSize, total),
	})
}

// AdminWalletOpRequest 管理员钱包操作请求
type AdminWalletOpRequest struct {
	User   int64  `json:"user" binding:"required"`
	Amount string `json:"amount" binding:"required"`
	Appeal *int64 `json:"appeal"`
	Reason string `json:"reason"`
}

// ManualCredit 管理员手动入账
func (h *AdminWalletHandler) ManualCredit(c *gin.Context) {
	admin := middleware.CurrentUser(c)

	var req AdminWalletOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		ValidationErrorResponse(c, model.ValidationError{"amount": "Amount must be a positive number."})
		return
	}

	wallet, err := h.walletLogic.ManualCredit(req.User, amount, admin)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "入账成功", gin.H{
		"balance": wallet.Balance.StringFixed(2),
	})
}

// AdjustBalance 手动调整余额，金额可正可负
func (h *AdminWalletHandler) AdjustBalance(c *gin.Context) {
	admin := middleware.CurrentUser(c)

	var req AdminWalletOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsZero() {
		ValidationErrorResponse(c, model.ValidationError{"amount": "Amount must be a non-zero number."})
		return
	}

	wallet, err := h.walletLogic.AdjustBalance(req.User, amount, req.Reason, admin)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "余额调整成功", gin.H{
		"balance": wallet.Balance.StringFixed(2),
	})
}

// IssueRefund 退款入账
func (h *AdminWalletHandler) IssueRefund(c *gin.Context) {
	admin := middleware.CurrentUser(c)

	var req AdminWalletOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		ValidationErrorResponse(c, model.ValidationError{"amount": "Amount must be a positive number."})
		return
	}

	wallet, err := h.walletLogic.IssueRefund(req.User, amount, req.Appeal, admin)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "退款成功", gin.H{
		"balance": wallet.Balance.StringFixed(2),
	})
}

// GetSystemWallet 系统钱包余额和流水
func (h *AdminWalletHandler) GetSystemWallet(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	balance, err := h.systemLogic.GetBalance()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	records, total, err := h.systemLogic.GetTransactions(page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", SystemWalletResponse{
		Balance:      balance.StringFixed(2),
		Transactions: ToSystemWalletTransactionResponseList(records),
		Pagination:   NewPagination(page, pageSize, total),
	})
}

// FulfillAppeals 手动触发一轮拨付
func (h *AdminWalletHandler) FulfillAppeals(c *gin.Context) {
	fulfilled, err := h.fulfillmentLogic.FulfillApprovedAppeals()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "拨付完成", gin.H{
		"fulfilled": fulfilled,
	})
}
