package logic

import (
	"fmt"
	"sort"
	"time"

	"github.com/mawaddah/mbs/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardLogic 管理端统计业务逻辑
type DashboardLogic struct {
	db *gorm.DB
}

// NewDashboardLogic 创建统计业务逻辑
func NewDashboardLogic(db *gorm.DB) *DashboardLogic {
	return &DashboardLogic{db: db}
}

// PlatformOverview 平台钱包总览
type PlatformOverview struct {
	TotalWithdrawnAmount decimal.Decimal `json:"total_withdrawn_amount"`
	TotalCurrentBalance  decimal.Decimal `json:"total_current_balance"`
}

// GetPlatformOverview 统计全平台已提现总额与钱包余额总额
func (d *DashboardLogic) GetPlatformOverview() (*PlatformOverview, error) {
	var withdrawn decimal.NullDecimal
	err := d.db.Model(&model.WalletTransactionModel{}).
		Where("type = ?", model.TransactionTypeDebit).
		Select("SUM(amount)").Scan(&withdrawn).Error
	if err != nil {
		return nil, fmt.Errorf("统计提现总额失败: %w", err)
	}

	var balance decimal.NullDecimal
	err = d.db.Model(&model.WalletModel{}).
		Select("SUM(balance)").Scan(&balance).Error
	if err != nil {
		return nil, fmt.Errorf("统计余额总额失败: %w", err)
	}

	return &PlatformOverview{
		TotalWithdrawnAmount: withdrawn.Decimal,
		TotalCurrentBalance:  balance.Decimal,
	}, nil
}

// RecipientWalletStat 单个受助人的钱包统计
type RecipientWalletStat struct {
	Id             int64           `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	TotalReceived  decimal.Decimal `json:"total_received"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// GetRecipientWalletStats 分页统计受助人钱包，按当前余额降序
func (d *DashboardLogic) GetRecipientWalletStats(page, pageSize int) ([]RecipientWalletStat, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	var total int64
	err := d.db.Model(&model.UserModel{}).
		Where("role = ?", model.RoleRecipient).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("统计受助人数量失败: %w", err)
	}

	var recipients []model.UserModel
	err = d.db.Where("role = ?", model.RoleRecipient).
		Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&recipients).Error
	if err != nil {
		return nil, 0, fmt.Errorf("获取受助人列表失败: %w", err)
	}

	stats := make([]RecipientWalletStat, 0, len(recipients))
	for _, user := range recipients {
		received, err := d.sumUserTransactions(user.Id, model.TransactionTypeCredit)
		if err != nil {
			return nil, 0, err
		}
		withdrawn, err := d.sumUserTransactions(user.Id, model.TransactionTypeDebit)
		if err != nil {
			return nil, 0, err
		}
		stats = append(stats, RecipientWalletStat{
			Id:             user.Id,
			Name:           user.FullName(),
			Email:          user.Email,
			TotalReceived:  received,
			TotalWithdrawn: withdrawn,
			CurrentBalance: received.Sub(withdrawn),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].CurrentBalance.GreaterThan(stats[j].CurrentBalance)
	})
	return stats, total, nil
}

func (d *DashboardLogic) sumUserTransactions(userId int64, txType model.TransactionType) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := d.db.Model(&model.WalletTransactionModel{}).
		Joins("JOIN wallet ON wallet.id = wallet_transaction.wallet_id").
		Where("wallet.user_id = ? AND wallet_transaction.type = ?", userId, txType).
		Select("SUM(wallet_transaction.amount)").Scan(&sum).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("统计用户流水失败: %w", err)
	}
	return sum.Decimal, nil
}

// RecipientLedgerEntry 受助人流水条目
type RecipientLedgerEntry struct {
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	TransferredBy string          `json:"transferred_by,omitempty"`
}

// GetRecipientWithdrawals 受助人的提现历史，按时间倒序
func (d *DashboardLogic) GetRecipientWithdrawals(userId int64) ([]RecipientLedgerEntry, error) {
	return d.recipientLedger(userId, model.TransactionTypeDebit)
}

// GetRecipientTransfers 受助人收到的入账历史，含来源标记
func (d *DashboardLogic) GetRecipientTransfers(userId int64) ([]RecipientLedgerEntry, error) {
	return d.recipientLedger(userId, model.TransactionTypeCredit)
}

func (d *DashboardLogic) recipientLedger(userId int64, txType model.TransactionType) ([]RecipientLedgerEntry, error) {
	var count int64
	err := d.db.Model(&model.UserModel{}).
		Where("id = ? AND role = ?", userId, model.RoleRecipient).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("查询受助人失败: %w", err)
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	var txs []model.WalletTransactionModel
	err = d.db.Joins("JOIN wallet ON wallet.id = wallet_transaction.wallet_id").
		Where("wallet.user_id = ? AND wallet_transaction.type = ?", userId, txType).
		Order("wallet_transaction.created_at DESC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("获取受助人流水失败: %w", err)
	}

	entries := make([]RecipientLedgerEntry, 0, len(txs))
	for _, tx := range txs {
		entry := RecipientLedgerEntry{
			Date:   tx.CreatedAt.Format("2006-01-02"),
			Amount: tx.Amount,
		}
		if txType == model.TransactionTypeCredit {
			entry.TransferredBy = d.resolveTransferredBy(&tx)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (d *DashboardLogic) resolveTransferredBy(tx *model.WalletTransactionModel) string {
	if tx.DonorId == nil {
		return "System"
	}
	var donor model.UserModel
	if err := d.db.First(&donor, *tx.DonorId).Error; err != nil {
		return "System"
	}
	return donor.FullName()
}

// AdminTransaction 管理端流水条目，附带用户与申请信息
type AdminTransaction struct {
	Id          int64                 `json:"id"`
	UserId      int64                 `json:"user_id"`
	UserName    string                `json:"user_name"`
	UserEmail   string                `json:"user_email"`
	UserRole    model.UserRole        `json:"user_role"`
	Amount      decimal.Decimal       `json:"amount"`
	Type        model.TransactionType `json:"type"`
	Description string                `json:"description"`
	TransferBy  model.TransferBy      `json:"transfer_by"`
	CreatedAt   time.Time             `json:"timestamp"`
	AppealId    *int64                `json:"appeal_id"`
	AppealTitle string                `json:"appeal_title"`
}

// GetAdminTransactions 全平台钱包流水，支持按用户姓名或邮箱模糊搜索
func (d *DashboardLogic) GetAdminTransactions(search string, page, pageSize int) ([]AdminTransaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	query := d.db.Model(&model.WalletTransactionModel{}).
		Joins("JOIN wallet ON wallet.id = wallet_transaction.wallet_id").
		Joins("JOIN users ON users.id = wallet.user_id")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"users.first_name LIKE ? OR users.last_name LIKE ? OR users.email LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计流水数量失败: %w", err)
	}

	type row struct {
		model.WalletTransactionModel
		UserId    int64
		FirstName string
		LastName  string
		Email     string
		Role      model.UserRole
	}
	var rows []row
	err := query.
		Select("wallet_transaction.*, users.id AS user_id, users.first_name, users.last_name, users.email, users.role").
		Order("wallet_transaction.created_at DESC, wallet_transaction.id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("获取平台流水失败: %w", err)
	}

	results := make([]AdminTransaction, 0, len(rows))
	for _, r := range rows {
		name := r.FirstName + " " + r.LastName
		if r.FirstName == "" && r.LastName == "" {
			name = r.Email
		}
		tx := AdminTransaction{
			Id:          r.Id,
			UserId:      r.UserId,
			UserName:    name,
			UserEmail:   r.Email,
			UserRole:    r.Role,
			Amount:      r.Amount,
			Type:        r.Type,
			Description: r.Description,
			TransferBy:  r.TransferBy,
			CreatedAt:   r.CreatedAt,
			AppealId:    r.AppealId,
		}
		if r.AppealId != nil {
			var appeal model.AppealModel
			if err := d.db.First(&appeal, *r.AppealId).Error; err == nil {
				tx.AppealTitle = appeal.Title
			}
		}
		results = append(results, tx)
	}
	return results, total, nil
}

// DashboardStats 管理端看板核心指标
type DashboardStats struct {
	TotalDonations  decimal.Decimal `json:"total_donations"`
	ActiveAppeals   int64           `json:"active_appeals"`
	RegisteredUsers int64           `json:"registered_users"`
	WalletBalance   decimal.Decimal `json:"wallet_balance"`
}

// GetDashboardStats 统计看板指标，periodDays 限定捐赠统计窗口
func (d *DashboardLogic) GetDashboardStats(periodDays int) (*DashboardStats, error) {
	switch periodDays {
	case 7, 30, 90:
	default:
		periodDays = 30
	}
	start := time.Now().AddDate(0, 0, -periodDays)

	var donations decimal.NullDecimal
	err := d.db.Model(&model.DonationModel{}).
		Where("created_at >= ?", start).
		Select("SUM(amount)").Scan(&donations).Error
	if err != nil {
		return nil, fmt.Errorf("统计捐赠总额失败: %w", err)
	}

	var activeAppeals int64
	err = d.db.Model(&model.AppealModel{}).
		Where("status = ?", model.AppealStatusApproved).
		Count(&activeAppeals).Error
	if err != nil {
		return nil, fmt.Errorf("统计进行中申请失败: %w", err)
	}

	var users int64
	if err := d.db.Model(&model.UserModel{}).Count(&users).Error; err != nil {
		return nil, fmt.Errorf("统计用户数量失败: %w", err)
	}

	var balance decimal.NullDecimal
	err = d.db.Model(&model.WalletModel{}).
		Select("SUM(balance)").Scan(&balance).Error
	if err != nil {
		return nil, fmt.Errorf("统计钱包余额失败: %w", err)
	}

	return &DashboardStats{
		TotalDonations:  donations.Decimal,
		ActiveAppeals:   activeAppeals,
		RegisteredUsers: users,
		WalletBalance:   balance.Decimal,
	}, nil
}
