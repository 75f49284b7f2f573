package task

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/mawaddah/mbs/internal/config"
	"github.com/mawaddah/mbs/internal/logger"
	"github.com/mawaddah/mbs/internal/logic"
	"gorm.io/gorm"
)

// AppealExpiryJob 申请过期任务
// 把批准后超过有效期仍未拨付的申请标记为过期
type AppealExpiryJob struct {
	config *config.Config
	expiry *logic.ExpiryLogic
}

// NewAppealExpiryJob 创建申请过期任务
func NewAppealExpiryJob(db *gorm.DB, cfg *config.Config) *AppealExpiryJob {
	return &AppealExpiryJob{
		config: cfg,
		expiry: logic.NewExpiryLogic(db),
	}
}

// GetName 获取任务名称
func (j *AppealExpiryJob) GetName() string {
	return "appeal_expiry"
}

// GetSchedule 获取调度配置
func (j *AppealExpiryJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.ExpiryInterval) * time.Second)
}

// Execute 执行任务
func (j *AppealExpiryJob) Execute() {
	logger.Info("Starting appeal expiry task")

	expired, err := j.expiry.ExpireOverdueAppeals(j.config.Task.ExpiryWorkers)
	if err != nil {
		logger.Error("Appeal expiry task failed: %v", err)
		return
	}

	logger.Info("Appeal expiry task completed, %d appeals expired", expired)
}
