package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mawaddah/mbs/internal/logic"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	dashboardLogic *logic.DashboardLogic
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		dashboardLogic: logic.NewDashboardLogic(db),
	}
}

// GetStats 管理端看板指标，period限定统计窗口（7/30/90天）
func (h *DashboardHandler) GetStats(c *gin.Context) {
	period, _ := strconv.Atoi(c.DefaultQuery("period", "30"))

	stats, err := h.dashboardLogic.GetDashboardStats(period)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"stats":  stats,
		"period": period,
	})
}
