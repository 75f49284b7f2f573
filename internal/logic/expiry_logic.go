package logic

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mawaddah/mbs/internal/logger"
	"github.com/mawaddah/mbs/internal/model"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// ExpiryLogic 申请过期业务逻辑
// 批准后超过有效期仍未拨付的申请标记为expired
type ExpiryLogic struct {
	db *gorm.DB
}

// NewExpiryLogic 创建过期业务逻辑
func NewExpiryLogic(db *gorm.DB) *ExpiryLogic {
	return &ExpiryLogic{db: db}
}

// ExpireOverdueAppeals 扫描并标记过期申请
// 每条申请相互独立，用协程池并发处理；状态更新带条件防止和拨付竞争
func (e *ExpiryLogic) ExpireOverdueAppeals(workers int) (int, error) {
	if workers < 1 {
		workers = 1
	}

	var appealIds []int64
	err := e.db.Model(&model.AppealModel{}).
		Where("status = ? AND expiry_date IS NOT NULL AND expiry_date < ?",
			model.AppealStatusApproved, time.Now()).
		Pluck("id", &appealIds).Error
	if err != nil {
		return 0, fmt.Errorf("failed to fetch overdue appeals: %w", err)
	}
	if len(appealIds) == 0 {
		return 0, nil
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return 0, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var expired int64

	for _, id := range appealIds {
		appealId := id
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			// 条件更新：只有仍处于approved的行才会被标记，和拨付任务竞争时以先提交者为准
			result := e.db.Model(&model.AppealModel{}).
				Where("id = ? AND status = ?", appealId, model.AppealStatusApproved).
				Update("status", model.AppealStatusExpired)
			if result.Error != nil {
				logger.Error("Failed to expire appeal %d: %v", appealId, result.Error)
				return
			}
			if result.RowsAffected > 0 {
				atomic.AddInt64(&expired, 1)
			}
		}); err != nil {
			wg.Done()
			logger.Error("Failed to submit expiry task for appeal %d: %v", appealId, err)
		}
	}
	wg.Wait()

	if expired > 0 {
		logger.Info("Expired %d overdue appeals", expired)
	}
	return int(expired), nil
}
