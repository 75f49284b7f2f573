package task

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/mawaddah/mbs/internal/config"
	"github.com/mawaddah/mbs/internal/logger"
	"github.com/mawaddah/mbs/internal/logic"
	"gorm.io/gorm"
)

// AppealFulfillmentJob 申请拨付任务
// 周期性把系统钱包的资金拨付给已批准的申请
type AppealFulfillmentJob struct {
	config      *config.Config
	fulfillment *logic.FulfillmentLogic
}

// NewAppealFulfillmentJob 创建申请拨付任务
func NewAppealFulfillmentJob(db *gorm.DB, cfg *config.Config) *AppealFulfillmentJob {
	return &AppealFulfillmentJob{
		config:      cfg,
		fulfillment: logic.NewFulfillmentLogic(db),
	}
}

// GetName 获取任务名称
func (j *AppealFulfillmentJob) GetName() string {
	return "appeal_fulfillment"
}

// GetSchedule 获取调度配置
func (j *AppealFulfillmentJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.FulfillmentInterval) * time.Second)
}

// Execute 执行任务
func (j *AppealFulfillmentJob) Execute() {
	logger.Info("Starting appeal fulfillment task")

	fulfilled, err := j.fulfillment.FulfillApprovedAppeals()
	if err != nil {
		logger.Error("Appeal fulfillment task failed: %v", err)
		return
	}

	logger.Info("Appeal fulfillment task completed, %d appeals fulfilled", fulfilled)
}
