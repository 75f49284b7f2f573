package logic

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mawaddah/mbs/internal/logger"
	"github.com/mawaddah/mbs/internal/model"
	"gorm.io/gorm"
)

// ErrAppealNotFound 申请不存在
var ErrAppealNotFound = errors.New("申请不存在")

// AppealLogic 资助申请业务逻辑
type AppealLogic struct {
	db *gorm.DB
}

// NewAppealLogic 创建申请业务逻辑
func NewAppealLogic(db *gorm.DB) *AppealLogic {
	return &AppealLogic{db: db}
}

// CreateAppeal 创建申请
// 字段规则由模型校验，同月同类别的唯一性规则在这里查库校验
func (a *AppealLogic) CreateAppeal(appeal *model.AppealModel, creator *model.UserModel) error {
	appeal.Status = model.AppealStatusPending
	appeal.CreatedById = creator.Id
	// Shura可以代受助人提交，其余情况受益人就是提交人
	if appeal.BeneficiaryId == 0 || !creator.IsShura() {
		appeal.BeneficiaryId = creator.Id
	}

	if err := appeal.Validate(); err != nil {
		return err
	}
	if err := a.checkActiveAppealLimit(appeal.BeneficiaryId, appeal.Category, time.Now(), 0); err != nil {
		return err
	}

	if err := a.db.Create(appeal).Error; err != nil {
		return fmt.Errorf("创建申请失败: %w", err)
	}
	return nil
}

// checkActiveAppealLimit 校验同一受助人同类别当月最多一条活跃申请（pending/approved）
// excludeId大于0时排除自身（更新场景）
func (a *AppealLogic) checkActiveAppealLimit(beneficiaryId int64, category model.AppealCategory,
	at time.Time, excludeId int64) error {

	monthStart := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	query := a.db.Model(&model.AppealModel{}).
		Where("beneficiary_id = ? AND category = ?", beneficiaryId, category).
		Where("status IN ?", []model.AppealStatus{model.AppealStatusPending, model.AppealStatusApproved}).
		Where("created_at >= ? AND created_at < ?", monthStart, monthEnd)
	if excludeId > 0 {
		query = query.Where("id <> ?", excludeId)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("校验活跃申请失败: %w", err)
	}
	if count > 0 {
		return model.ValidationError{
			"appeal": "Only one active appeal per user per category per month is allowed.",
		}
	}
	return nil
}

// GetAppeal 获取申请详情
func (a *AppealLogic) GetAppeal(id int64) (*model.AppealModel, error) {
	var appeal model.AppealModel
	if err := a.db.First(&appeal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppealNotFound
		}
		return nil, fmt.Errorf("获取申请详情失败: %w", err)
	}
	return &appeal, nil
}

// AppealFilteredStats 按过滤条件统计的各状态数量
type AppealFilteredStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Cancelled int64 `json:"cancelled"`
	Fulfilled int64 `json:"fulfilled"`
	Expired   int64 `json:"expired"`
}

// GetAppeals 获取申请列表，支持状态/类别过滤、标题描述搜索和分页
func (a *AppealLogic) GetAppeals(status, category, search string, page, pageSize int) ([]model.AppealModel, int64, *AppealFilteredStats, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	base := a.db.Model(&model.AppealModel{})
	if status != "" {
		base = base.Where("status = ?", status)
	}
	if category != "" {
		base = base.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		base = base.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, nil, fmt.Errorf("获取申请总数失败: %w", err)
	}

	var appeals []model.AppealModel
	err := base.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&appeals).Error
	if err != nil {
		return nil, 0, nil, fmt.Errorf("获取申请列表失败: %w", err)
	}

	stats, err := a.filteredStats(category, search)
	if err != nil {
		return nil, 0, nil, err
	}
	stats.Total = total
	return appeals, total, stats, nil
}

// filteredStats 在同一过滤条件下（忽略状态过滤）统计各状态数量
func (a *AppealLogic) filteredStats(category, search string) (*AppealFilteredStats, error) {
	query := a.db.Model(&model.AppealModel{}).
		Select(`COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending,
			COUNT(CASE WHEN status = 'approved' THEN 1 END) AS approved,
			COUNT(CASE WHEN status = 'rejected' THEN 1 END) AS rejected,
			COUNT(CASE WHEN status = 'cancelled' THEN 1 END) AS cancelled,
			COUNT(CASE WHEN status = 'fulfilled' THEN 1 END) AS fulfilled,
			COUNT(CASE WHEN status = 'expired' THEN 1 END) AS expired`)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var stats AppealFilteredStats
	if err := query.Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("统计申请状态失败: %w", err)
	}
	return &stats, nil
}

// AppealUpdate 允许更新的字段，指针为空表示不修改
type AppealUpdate struct {
	Title          *string
	Description    *string
	Category       *model.AppealCategory
	Amount         *string
	IsMonthly      *bool
	MonthsRequired *int
}

// UpdateAppeal 更新申请，仅限待审核状态
func (a *AppealLogic) UpdateAppeal(id int64, update AppealUpdate) (*model.AppealModel, error) {
	appeal, err := a.GetAppeal(id)
	if err != nil {
		return nil, err
	}
	if appeal.Status != model.AppealStatusPending {
		return nil, fmt.Errorf("appeal status is not pending: %s", appeal.Status)
	}

	if update.Title != nil {
		appeal.Title = *update.Title
	}
	if update.Description != nil {
		appeal.Description = *update.Description
	}
	if update.Category != nil {
		appeal.Category = *update.Category
	}
	if update.Amount != nil {
		amount, err := parseAmount(*update.Amount)
		if err != nil {
			return nil, model.ValidationError{"amount_requested": "Invalid amount format."}
		}
		appeal.Amount = amount
	}
	if update.IsMonthly != nil {
		appeal.IsMonthly = *update.IsMonthly
	}
	if update.MonthsRequired != nil {
		appeal.MonthsRequired = update.MonthsRequired
	}

	if err := appeal.Validate(); err != nil {
		return nil, err
	}
	// 更新时按创建月份窗口排除自身做唯一性校验
	if err := a.checkActiveAppealLimit(appeal.BeneficiaryId, appeal.Category, appeal.CreatedAt, appeal.Id); err != nil {
		return nil, err
	}

	if err := a.db.Save(appeal).Error; err != nil {
		return nil, fmt.Errorf("更新申请失败: %w", err)
	}
	return appeal, nil
}

// ApproveAppeal 批准申请：pending -> approved，打上操作人和时间戳
// 批准后设置拨付有效期，超期未拨付的申请由过期任务标记为expired
func (a *AppealLogic) ApproveAppeal(id int64, actor *model.UserModel, validDays int) (*model.AppealModel, error) {
	appeal, err := a.GetAppeal(id)
	if err != nil {
		return nil, err
	}
	if appeal.Status != model.AppealStatusPending {
		return nil, fmt.Errorf("appeal status is not pending: %s", appeal.Status)
	}

	now := time.Now()
	expiry := now.AddDate(0, 0, validDays)
	appeal.Status = model.AppealStatusApproved
	appeal.ApprovedById = &actor.Id
	appeal.ApprovedAt = &now
	appeal.ExpiryDate = &expiry

	if err := a.db.Save(appeal).Error; err != nil {
		return nil, fmt.Errorf("批准申请失败: %w", err)
	}
	logger.Info("Appeal %d approved by user %d", appeal.Id, actor.Id)
	return appeal, nil
}

// RejectAppeal 驳回申请：pending -> rejected，必须填写原因
func (a *AppealLogic) RejectAppeal(id int64, actor *model.UserModel, reason string) (*model.AppealModel, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, model.ValidationError{
			"rejection_reason": "Rejection reason required if status is rejected.",
		}
	}

	appeal, err := a.GetAppeal(id)
	if err != nil {
		return nil, err
	}
	if appeal.Status != model.AppealStatusPending {
		return nil, fmt.Errorf("appeal status is not pending: %s", appeal.Status)
	}

	now := time.Now()
	appeal.Status = model.AppealStatusRejected
	appeal.RejectedById = &actor.Id
	appeal.RejectedAt = &now
	appeal.RejectionReason = reason

	if err := a.db.Save(appeal).Error; err != nil {
		return nil, fmt.Errorf("驳回申请失败: %w", err)
	}
	logger.Info("Appeal %d rejected by user %d: %s", appeal.Id, actor.Id, reason)
	return appeal, nil
}

// CancelAppeal 取消申请：pending/approved -> cancelled
func (a *AppealLogic) CancelAppeal(id int64, actor *model.UserModel) (*model.AppealModel, error) {
	appeal, err := a.GetAppeal(id)
	if err != nil {
		return nil, err
	}
	if appeal.Status != model.AppealStatusPending && appeal.Status != model.AppealStatusApproved {
		return nil, fmt.Errorf("appeal status cannot be cancelled: %s", appeal.Status)
	}

	now := time.Now()
	appeal.Status = model.AppealStatusCancelled
	appeal.CancelledById = &actor.Id
	appeal.CancelledAt = &now

	if err := a.db.Save(appeal).Error; err != nil {
		return nil, fmt.Errorf("取消申请失败: %w", err)
	}
	logger.Info("Appeal %d cancelled by user %d", appeal.Id, actor.Id)
	return appeal, nil
}
