package logic

import (
	"fmt"
	"time"

	"github.com/mawaddah/mbs/internal/logger"
	"github.com/mawaddah/mbs/internal/model"
	"gorm.io/gorm"
)

// FulfillmentLogic 申请拨付业务逻辑
// 从系统钱包向已批准的申请拨款，整批在一个持锁事务内完成：
// 并发调用在系统钱包行锁上串行，不可能重复拨付
type FulfillmentLogic struct {
	db *gorm.DB
}

// NewFulfillmentLogic 创建拨付业务逻辑
func NewFulfillmentLogic(db *gorm.DB) *FulfillmentLogic {
	return &FulfillmentLogic{db: db}
}

// FulfillApprovedAppeals 拨付全部已批准且未拨付的申请
// 按主键顺序逐条处理；余额不足的直接跳过，留待下一轮。
// 整批事务要么全部提交要么全部回滚，返回本轮拨付的申请数
func (f *FulfillmentLogic) FulfillApprovedAppeals() (int, error) {
	fulfilled := 0

	err := f.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := lockSystemWallet(tx)
		if err != nil {
			return err
		}

		var appeals []model.AppealModel
		err = forUpdate(tx).
			Where("status = ? AND fulfilled_at IS NULL", model.AppealStatusApproved).
			Order("id ASC").
			Find(&appeals).Error
		if err != nil {
			return fmt.Errorf("failed to fetch approved appeals: %w", err)
		}

		for i := range appeals {
			appeal := &appeals[i]

			// 余额不足：静默跳过，下一轮再试
			if wallet.TotalBalance.LessThan(appeal.Amount) {
				logger.Info("Skipping appeal %d: system wallet balance %s < requested %s",
					appeal.Id, wallet.TotalBalance.StringFixed(2), appeal.Amount.StringFixed(2))
				continue
			}

			wallet.TotalBalance = wallet.TotalBalance.Sub(appeal.Amount)
			if err := tx.Save(wallet).Error; err != nil {
				return fmt.Errorf("failed to update system wallet: %w", err)
			}

			record := model.SystemWalletTransactionModel{
				Amount:      appeal.Amount,
				Type:        model.TransactionTypeDebit,
				Description: GenerateDescription(ActionWithdrawal, &appeal.Id, ""),
				TransferBy:  model.TransferBySystem,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to create system wallet transaction: %w", err)
			}

			now := time.Now()
			appeal.Status = model.AppealStatusFulfilled
			appeal.FulfilledAt = &now
			if err := tx.Save(appeal).Error; err != nil {
				return fmt.Errorf("failed to mark appeal %d fulfilled: %w", appeal.Id, err)
			}

			logger.Info("Fulfilled appeal %d: %s debited from system wallet",
				appeal.Id, appeal.Amount.StringFixed(2))
			fulfilled++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return fulfilled, nil
}
