package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mawaddah/mbs/internal/logic"
	"github.com/mawaddah/mbs/internal/model"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// ValidationErrorResponse 字段校验错误响应，按字段返回错误文案
func ValidationErrorResponse(c *gin.Context, errs model.ValidationError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  errs.Fields(),
	})
}

// HandleLogicError 统一转换logic层错误：校验错误400，未找到404，其余500
func HandleLogicError(c *gin.Context, err error) {
	var validationErr model.ValidationError
	if errors.As(err, &validationErr) {
		ValidationErrorResponse(c, validationErr)
		return
	}
	if isNotFound(err) {
		ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	ErrorResponse(c, http.StatusInternalServerError, err.Error())
}

func isNotFound(err error) bool {
	return errors.Is(err, logic.ErrAppealNotFound) ||
		errors.Is(err, logic.ErrUserNotFound) ||
		errors.Is(err, logic.ErrDonationNotFound)
}
