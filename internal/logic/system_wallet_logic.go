package logic

import (
	"errors"
	"fmt"

	"github.com/mawaddah/mbs/internal/logger"
	"github.com/mawaddah/mbs/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SystemWalletLogic 系统钱包（平台资金池）业务逻辑
// 单例行(id=1)是拨付流程的串行化点，所有余额变更都在持锁事务内完成
type SystemWalletLogic struct {
	db *gorm.DB
}

// NewSystemWalletLogic 创建系统钱包业务逻辑
func NewSystemWalletLogic(db *gorm.DB) *SystemWalletLogic {
	return &SystemWalletLogic{db: db}
}

// lockSystemWallet 在事务内锁定系统钱包单例，不存在时创建
func lockSystemWallet(tx *gorm.DB) (*model.SystemWalletModel, error) {
	var wallet model.SystemWalletModel
	err := forUpdate(tx).First(&wallet, model.SystemWalletId).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to lock system wallet: %w", err)
	}

	wallet = model.SystemWalletModel{Id: model.SystemWalletId, TotalBalance: decimal.Zero}
	if err := tx.Create(&wallet).Error; err != nil {
		return nil, fmt.Errorf("failed to create system wallet: %w", err)
	}
	// 创建后重新加锁，保证持有行锁
	if err := forUpdate(tx).First(&wallet, model.SystemWalletId).Error; err != nil {
		return nil, fmt.Errorf("failed to lock system wallet: %w", err)
	}
	return &wallet, nil
}

// AddToSystemWallet 向系统钱包入账（捐赠确认时调用），返回新余额
func (s *SystemWalletLogic) AddToSystemWallet(amount decimal.Decimal, relatedDonationId *int64,
	actor *model.UserModel) (decimal.Decimal, error) {

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, errors.New("amount must be positive")
	}

	var newBalance decimal.Decimal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := lockSystemWallet(tx)
		if err != nil {
			return err
		}

		// 重复确认检查必须在持锁后进行，并发确认会在行锁上串行化
		if relatedDonationId != nil {
			var confirmed int64
			err := tx.Model(&model.SystemWalletTransactionModel{}).
				Where("related_donation_id = ?", *relatedDonationId).
				Count(&confirmed).Error
			if err != nil {
				return fmt.Errorf("failed to check donation confirmation: %w", err)
			}
			if confirmed > 0 {
				return ErrDonationConfirmed
			}
		}

		wallet.TotalBalance = wallet.TotalBalance.Add(amount)
		if err := tx.Save(wallet).Error; err != nil {
			return fmt.Errorf("failed to update system wallet: %w", err)
		}

		record := model.SystemWalletTransactionModel{
			Amount:            amount,
			Type:              model.TransactionTypeCredit,
			Description:       GenerateDescription(ActionDonation, nil, ""),
			TransferBy:        ResolveTransferBy(actor),
			RelatedDonationId: relatedDonationId,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create system wallet transaction: %w", err)
		}

		newBalance = wallet.TotalBalance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	logger.Info("Added %s to system wallet. New balance: %s",
		amount.StringFixed(2), newBalance.StringFixed(2))
	return newBalance, nil
}

// GetBalance 获取系统钱包余额，不存在时返回零
func (s *SystemWalletLogic) GetBalance() (decimal.Decimal, error) {
	var wallet model.SystemWalletModel
	err := s.db.First(&wallet, model.SystemWalletId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("获取系统钱包失败: %w", err)
	}
	return wallet.TotalBalance, nil
}

// GetTransactions 获取系统钱包流水，按时间倒序
func (s *SystemWalletLogic) GetTransactions(page, pageSize int) ([]model.SystemWalletTransactionModel, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	var total int64
	query := s.db.Model(&model.SystemWalletTransactionModel{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取流水总数失败: %w", err)
	}

	var records []model.SystemWalletTransactionModel
	err := query.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("获取流水失败: %w", err)
	}
	return records, total, nil
}
