package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mawaddah/mbs/internal/auth"
	"github.com/mawaddah/mbs/internal/config"
	"github.com/mawaddah/mbs/internal/logic"
	"github.com/mawaddah/mbs/internal/model"
	"gorm.io/gorm"
)

type AuthHandler struct {
	userLogic *logic.UserLogic
	jwtCfg    config.JWTConfig
}

func NewAuthHandler(db *gorm.DB, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		userLogic: logic.NewUserLogic(db),
		jwtCfg:    jwtCfg,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email          string               `json:"email" binding:"required,email"`
	Phone          string               `json:"phone" binding:"required"`
	Password       string               `json:"password" binding:"required"`
	FirstName      string               `json:"first_name"`
	LastName       string               `json:"last_name"`
	Role           model.UserRole       `json:"role"`
	IsVerifiedSyed bool                 `json:"is_verified_syed"`
	Country        string               `json:"country"`
	State          string               `json:"state"`
	City           string               `json:"city"`
	Language       string               `json:"language"`
	WithdrawMethod model.WithdrawMethod `json:"withdraw_method"`
	AccountTitle   string               `json:"account_title"`
	AccountNumber  string               `json:"account_number"`
	BankName       string               `json:"bank_name"`
}

// Register 用户注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// 管理员账号不允许自助注册
	if req.Role == model.RoleAdmin {
		ErrorResponse(c, http.StatusForbidden, "不允许注册管理员账号")
		return
	}

	user := model.UserModel{
		Email:          req.Email,
		Phone:          req.Phone,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Role:           req.Role,
		IsVerifiedSyed: req.IsVerifiedSyed,
		Country:        req.Country,
		State:          req.State,
		City:           req.City,
		Language:       req.Language,
		WithdrawMethod: req.WithdrawMethod,
		AccountTitle:   req.AccountTitle,
		AccountNumber:  req.AccountNumber,
		BankName:       req.BankName,
	}
	if err := h.userLogic.Register(&user, req.Password); err != nil {
		HandleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "注册成功", ToUserResponse(&user))
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 用户登录，成功返回JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userLogic.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, logic.ErrInvalidCredentials) {
			ErrorResponse(c, http.StatusUnauthorized, err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	expiry := time.Duration(h.jwtCfg.ExpiryHours) * time.Hour
	token, err := auth.GenerateToken(h.jwtCfg.Secret, user.Id, user.Role, expiry)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "生成令牌失败")
		return
	}

	SuccessResponse(c, http.StatusOK, "登录成功", LoginResponse{
		Token: token,
		User:  ToUserResponse(user),
	})
}
