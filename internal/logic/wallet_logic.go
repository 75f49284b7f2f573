package logic

import (
	"errors"
	"fmt"

	"github.com/mawaddah/mbs/internal/logger"
	"github.com/mawaddah/mbs/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletLogic 受助人钱包业务逻辑
// 所有余额变更的唯一入口：行锁 + 余额更新 + 流水写入在同一事务内完成，
// 任一步失败则整体回滚，余额和流水永不偏离
type WalletLogic struct {
	db *gorm.DB
}

// NewWalletLogic 创建钱包业务逻辑
func NewWalletLogic(db *gorm.DB) *WalletLogic {
	return &WalletLogic{db: db}
}

// GetOrCreateWallet 获取用户钱包，不存在时创建
func (w *WalletLogic) GetOrCreateWallet(userId int64) (*model.WalletModel, error) {
	var wallet model.WalletModel
	err := w.db.Where("user_id = ?", userId).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("获取钱包失败: %w", err)
	}

	wallet = model.WalletModel{UserId: userId, Balance: decimal.Zero}
	err = w.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&wallet).Error; err != nil {
			return err
		}
		return w.writeAudit(tx, nil, model.AuditWalletCreated, wallet.Id, "")
	})
	if err != nil {
		return nil, fmt.Errorf("创建钱包失败: %w", err)
	}
	return &wallet, nil
}

// CreditWallet 钱包入账
// 描述文案未指定时按操作类型生成，归因按操作者角色解析
func (w *WalletLogic) CreditWallet(userId int64, amount decimal.Decimal, appealId, donorId *int64,
	actor *model.UserModel, action WalletAction, description string) (*model.WalletModel, error) {

	if description == "" {
		description = GenerateDescription(action, appealId, "")
	}
	transferBy := ResolveTransferBy(actor)
	if actor == nil && donorId != nil {
		transferBy = model.TransferByDonor
	}

	return w.mutate(userId, walletMutation{
		delta:       amount,
		txType:      model.TransactionTypeCredit,
		txAmount:    amount,
		appealId:    appealId,
		donorId:     donorId,
		description: description,
		transferBy:  transferBy,
		actor:       actor,
		audit:       model.AuditWalletCredited,
	})
}

// DebitWallet 钱包出账
// 本层不校验余额充足性，是否允许透支由调用方决策
func (w *WalletLogic) DebitWallet(userId int64, amount decimal.Decimal, appealId *int64,
	actor *model.UserModel) (*model.WalletModel, error) {

	return w.mutate(userId, walletMutation{
		delta:       amount.Neg(),
		txType:      model.TransactionTypeDebit,
		txAmount:    amount,
		appealId:    appealId,
		description: GenerateDescription(ActionWithdrawal, appealId, ""),
		transferBy:  ResolveTransferBy(actor),
		actor:       actor,
		audit:       model.AuditWithdrawalApproved,
	})
}

// ManualCredit 管理员手动入账
func (w *WalletLogic) ManualCredit(userId int64, amount decimal.Decimal,
	actor *model.UserModel) (*model.WalletModel, error) {

	return w.mutate(userId, walletMutation{
		delta:       amount,
		txType:      model.TransactionTypeCredit,
		txAmount:    amount,
		description: GenerateDescription(ActionAdminCredit, nil, ""),
		transferBy:  model.TransferByAdmin,
		actor:       actor,
		audit:       model.AuditWalletCredited,
	})
}

// AdjustBalance 手动调整余额，金额可正可负，流水类型随符号
func (w *WalletLogic) AdjustBalance(userId int64, amount decimal.Decimal, reason string,
	actor *model.UserModel) (*model.WalletModel, error) {

	txType := model.TransactionTypeCredit
	if amount.IsNegative() {
		txType = model.TransactionTypeDebit
	}

	return w.mutate(userId, walletMutation{
		delta:       amount,
		txType:      txType,
		txAmount:    amount.Abs(),
		description: GenerateDescription(ActionManualAdjustment, nil, reason),
		transferBy:  model.TransferByAdmin,
		actor:       actor,
	})
}

// RejectWithdrawal 驳回提现，只记零金额流水作为审计痕迹，不改余额
func (w *WalletLogic) RejectWithdrawal(appealId int64, actor *model.UserModel) (*model.WalletModel, error) {
	var appeal model.AppealModel
	if err := w.db.First(&appeal, appealId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("申请不存在")
		}
		return nil, fmt.Errorf("获取申请失败: %w", err)
	}

	return w.mutate(appeal.BeneficiaryId, walletMutation{
		delta:       decimal.Zero,
		txType:      model.TransactionTypeDebit,
		txAmount:    decimal.Zero,
		appealId:    &appealId,
		description: GenerateDescription(ActionRejectedWithdrawal, &appealId, ""),
		transferBy:  model.TransferByAdmin,
		actor:       actor,
		audit:       model.AuditWithdrawalRejected,
	})
}

// IssueRefund 退款入账
func (w *WalletLogic) IssueRefund(userId int64, amount decimal.Decimal, appealId *int64,
	actor *model.UserModel) (*model.WalletModel, error) {

	return w.mutate(userId, walletMutation{
		delta:       amount,
		txType:      model.TransactionTypeCredit,
		txAmount:    amount,
		appealId:    appealId,
		description: GenerateDescription(ActionRefund, appealId, ""),
		transferBy:  ResolveTransferBy(actor),
		actor:       actor,
		audit:       model.AuditWalletCredited,
	})
}

// walletMutation 单次余额变更的全部参数
type walletMutation struct {
	delta       decimal.Decimal // 余额增量（带符号）
	txType      model.TransactionType
	txAmount    decimal.Decimal // 流水金额（非负）
	appealId    *int64
	donorId     *int64
	description string
	transferBy  model.TransferBy
	actor       *model.UserModel
	audit       model.AuditAction // 为空时不写审计日志
}

// mutate 执行一次余额变更：锁行、改余额、写流水（同一事务）
func (w *WalletLogic) mutate(userId int64, m walletMutation) (*model.WalletModel, error) {
	if _, err := w.GetOrCreateWallet(userId); err != nil {
		return nil, err
	}

	var wallet model.WalletModel
	err := w.db.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("user_id = ?", userId).First(&wallet).Error; err != nil {
			return fmt.Errorf("failed to lock wallet for user %d: %w", userId, err)
		}

		if !m.delta.IsZero() {
			wallet.Balance = wallet.Balance.Add(m.delta)
			if err := tx.Save(&wallet).Error; err != nil {
				return fmt.Errorf("failed to update wallet balance: %w", err)
			}
		}

		record := model.WalletTransactionModel{
			WalletId:    wallet.Id,
			Type:        m.txType,
			Amount:      m.txAmount,
			AppealId:    m.appealId,
			DonorId:     m.donorId,
			Description: m.description,
			TransferBy:  m.transferBy,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create wallet transaction: %w", err)
		}

		if m.audit != "" {
			var actorId *int64
			if m.actor != nil {
				actorId = &m.actor.Id
			}
			if err := w.writeAudit(tx, actorId, m.audit, wallet.Id,
				fmt.Sprintf(`{"type":%q,"amount":%q}`, m.txType, m.txAmount.StringFixed(2))); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Wallet %d %s %s, new balance: %s",
		wallet.Id, m.txType, m.txAmount.StringFixed(2), wallet.Balance.StringFixed(2))
	return &wallet, nil
}

// writeAudit 写审计日志
func (w *WalletLogic) writeAudit(tx *gorm.DB, actorId *int64, action model.AuditAction,
	walletId int64, metadata string) error {

	entry := model.AuditLogModel{
		ActorId:        actorId,
		Action:         action,
		TargetObjectId: fmt.Sprintf("%d", walletId),
		Metadata:       metadata,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// GetTransactions 获取钱包流水，按时间倒序分页
func (w *WalletLogic) GetTransactions(userId int64, page, pageSize int) ([]model.WalletTransactionModel, int64, error) {
	wallet, err := w.GetOrCreateWallet(userId)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	var total int64
	query := w.db.Model(&model.WalletTransactionModel{}).Where("wallet_id = ?", wallet.Id)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取流水总数失败: %w", err)
	}

	var records []model.WalletTransactionModel
	err = query.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("获取流水失败: %w", err)
	}
	return records, total, nil
}

// WalletStats 钱包统计
type WalletStats struct {
	TotalCredited    decimal.Decimal `json:"total_credited"`
	TotalWithdrawn   decimal.Decimal `json:"total_withdrawn"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
}

// GetWalletStats 获取钱包统计：累计入账、累计出账、可用余额
func (w *WalletLogic) GetWalletStats(userId int64) (*WalletStats, error) {
	wallet, err := w.GetOrCreateWallet(userId)
	if err != nil {
		return nil, err
	}

	credited, err := w.sumByType(wallet.Id, model.TransactionTypeCredit)
	if err != nil {
		return nil, err
	}
	withdrawn, err := w.sumByType(wallet.Id, model.TransactionTypeDebit)
	if err != nil {
		return nil, err
	}

	return &WalletStats{
		TotalCredited:    credited,
		TotalWithdrawn:   withdrawn,
		AvailableBalance: credited.Sub(withdrawn),
	}, nil
}

// sumByType 按流水类型求和
func (w *WalletLogic) sumByType(walletId int64, txType model.TransactionType) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := w.db.Model(&model.WalletTransactionModel{}).
		Where("wallet_id = ? AND type = ?", walletId, txType).
		Select("SUM(amount)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("统计流水失败: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
