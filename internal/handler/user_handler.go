package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mawaddah/mbs/internal/logic"
	"github.com/mawaddah/mbs/internal/middleware"
	"github.com/mawaddah/mbs/internal/model"
	"gorm.io/gorm"
)

type UserHandler struct {
	userLogic *logic.UserLogic
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		userLogic: logic.NewUserLogic(db),
	}
}

// GetProfile 获取当前用户资料
func (h *UserHandler) GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	SuccessResponse(c, http.StatusOK, "", ToUserResponse(user))
}

// UpdateProfileRequest 资料更新请求，只允许更新特定字段
type UpdateProfileRequest struct {
	FirstName      *string               `json:"first_name"`
	LastName       *string               `json:"last_name"`
	Country        *string               `json:"country"`
	State          *string               `json:"state"`
	City           *string               `json:"city"`
	Language       *string               `json:"language"`
	WithdrawMethod *model.WithdrawMethod `json:"withdraw_method"`
	AccountTitle   *string               `json:"account_title"`
	AccountNumber  *string               `json:"account_number"`
	BankName       *string               `json:"bank_name"`
}

// UpdateProfile 更新当前用户资料
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.userLogic.UpdateProfile(user.Id, logic.ProfileUpdate{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Country:        req.Country,
		State:          req.State,
		City:           req.City,
		Language:       req.Language,
		WithdrawMethod: req.WithdrawMethod,
		AccountTitle:   req.AccountTitle,
		AccountNumber:  req.AccountNumber,
		BankName:       req.BankName,
	})
	if err != nil {
		HandleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "资料更新成功", ToUserResponse(updated))
}
