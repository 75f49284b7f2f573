package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mawaddah/mbs/internal/config"
	"github.com/mawaddah/mbs/internal/logic"
	"github.com/mawaddah/mbs/internal/middleware"
	"github.com/mawaddah/mbs/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AppealHandler struct {
	appealLogic *logic.AppealLogic
	taskCfg     config.TaskConfig
}

func NewAppealHandler(db *gorm.DB, taskCfg config.TaskConfig) *AppealHandler {
	return &AppealHandler{
		appealLogic: logic.NewAppealLogic(db),
		taskCfg:     taskCfg,
	}
}

// CreateAppealRequest 创建申请请求
type CreateAppealRequest struct {
	Title          string               `json:"title" binding:"required"`
	Description    string               `json:"description"`
	Category       model.AppealCategory `json:"category" binding:"required"`
	Amount         string               `json:"amount_requested" binding:"required"`
	IsMonthly      bool                 `json:"is_monthly"`
	MonthsRequired *int                 `json:"months_required"`
	IsUrgent       bool                 `json:"is_urgent"`
	Beneficiary    int64                `json:"beneficiary"` // 仅Shura可代受助人指定
}

// CreateAppeal 创建申请
func (h *AppealHandler) CreateAppeal(c *gin.Context) {
	user := middleware.CurrentUser(c)

	// 受助人必须是认证的Sadaat，Shura可以代提
	if !user.CanSubmitAppeals() && !user.IsShura() {
		ErrorResponse(c, http.StatusForbidden, "只有认证的受助人或Shura成员可以提交申请")
		return
	}

	var req CreateAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		ValidationErrorResponse(c, model.ValidationError{"amount_requested": "Invalid amount format."})
		return
	}

	appeal := model.AppealModel{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Amount:         amount,
		IsMonthly:      req.IsMonthly,
		MonthsRequired: req.MonthsRequired,
		IsUrgent:       req.IsUrgent,
		BeneficiaryId:  req.Beneficiary,
	}
	if err := h.appealLogic.CreateAppeal(&appeal, user); err != nil {
		HandleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "申请创建成功", ToAppealResponse(&appeal))
}

// GetAppeals 获取申请列表
func (h *AppealHandler) GetAppeals(c *gin.Context) {
	status := c.Query("status")
	category := c.Query("category")
	search := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	appeals, total, stats, err := h.appealLogic.GetAppeals(status, category, search, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", GetAppealsResponse{
		Appeals:       ToAppealResponseList(appeals),
		FilteredStats: stats,
		Pagination:    NewPagination(page, pageSize, total),
	})
}

// GetAppeal 获取申请详情
func (h *AppealHandler) GetAppeal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的申请ID")
		return
	}

	appeal, err := h.appealLogic.GetAppeal(id)
	if err != nil {
		HandleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToAppealResponse(appeal))
}

// UpdateAppealRequest 更新申请请求，指针为空表示不修改
type UpdateAppealRequest struct {
	Title          *string               `json:"title"`
	Description    *string               `json:"description"`
	Category       *model.AppealCategory `json:"category"`
	Amount         *string               `json:"amount_requested"`
	IsMonthly      *bool                 `json:"is_monthly"`
	MonthsRequired *int                  `json:"months_required"`
}

// UpdateAppeal 更新申请，仅待审核状态、仅申请人本人或Shura/管理员
func (h *AppealHandler) UpdateAppeal(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的申请ID")
		return
	}

	appeal, err := h.appealLogic.GetAppeal(id)
	if err != nil {
		HandleLogicError(c, err)
		return
	}
	if appeal.CreatedById != user.Id && !user.IsShura() && !user.IsAdmin() {
		ErrorResponse(c, http.StatusForbidden, "只有申请人可以修改申请")
		return
	}

	var req UpdateAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.appealLogic.UpdateAppeal(id, logic.AppealUpdate{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Amount:         req.Amount,
		IsMonthly:      req.IsMonthly,
		MonthsRequired: req.MonthsRequired,
	})
	if err != nil {
		HandleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "申请更新成功", ToAppealResponse(updated))
}

// ApproveAppeal 批准申请
func (h *AppealHandler) ApproveAppeal(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的申请ID")
		return
	}

	appeal, err := h.appealLogic.ApproveAppeal(id, user, h.taskCfg.ApprovalValidDays)
	if err != nil {
		HandleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "申请已批准", ToAppealResponse(appeal))
}

// RejectAppealRequest 驳回申请请求
type RejectAppealRequest struct {
	Reason string `json:"reason"`
}

// RejectAppeal 驳回申请，必须填写原因
func (h *AppealHandler) RejectAppeal(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的申请ID")
		return
	}

	var req RejectAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	appeal, err := h.appealLogic.RejectAppeal(id, user, req.Reason)
	if err != nil {
		HandleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "申请已驳回", ToAppealResponse(appeal))
}

// CancelAppeal 取消申请，申请人本人或Shura/管理员
func (h *AppealHandler) CancelAppeal(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的申请ID")
		return
	}

	appeal, err := h.appealLogic.GetAppeal(id)
	if err != nil {
		HandleLogicError(c, err)
		return
	}
	if appeal.CreatedById != user.Id && !user.IsShura() && !user.IsAdmin() {
		ErrorResponse(c, http.StatusForbidden, "只有申请人可以取消申请")
		return
	}

	cancelled, err := h.appealLogic.CancelAppeal(id, user)
	if err != nil {
		HandleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "申请已取消", ToAppealResponse(cancelled))
}
