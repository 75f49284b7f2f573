package logic

import (
	"fmt"

	"github.com/mawaddah/mbs/internal/model"
)

// WalletAction 钱包操作类型，决定流水描述文案
type WalletAction string

const (
	ActionDonation           WalletAction = "donation"            // 捐赠入账
	ActionWithdrawal         WalletAction = "withdrawal"          // 资金拨付/提现
	ActionRejectedWithdrawal WalletAction = "rejected_withdrawal" // 提现驳回
	ActionAdminCredit        WalletAction = "admin_credit"        // 管理员手动入账
	ActionManualAdjustment   WalletAction = "manual_adjustment"   // 手动调整余额
	ActionRefund             WalletAction = "refund"              // 退款
)

// GenerateDescription 根据操作类型生成流水描述，固定文案
func GenerateDescription(action WalletAction, appealId *int64, reason string) string {
	switch action {
	case ActionDonation:
		if appealId != nil {
			return fmt.Sprintf("Donation credited – Appeal #%d", *appealId)
		}
		return "Donation credited"
	case ActionWithdrawal:
		if appealId != nil {
			return fmt.Sprintf("Funds disbursed – Appeal #%d", *appealId)
		}
		return "Funds disbursed"
	case ActionRejectedWithdrawal:
		if appealId != nil {
			return fmt.Sprintf("Withdrawal rejected – Appeal #%d", *appealId)
		}
		return "Withdrawal rejected"
	case ActionAdminCredit:
		return "Manual credit added by Admin"
	case ActionManualAdjustment:
		if reason != "" {
			return fmt.Sprintf("Manual balance adjustment – %s", reason)
		}
		return "Manual balance adjustment"
	case ActionRefund:
		if appealId != nil {
			return fmt.Sprintf("Refund issued – Appeal #%d", *appealId)
		}
		return "Refund issued"
	default:
		return "Transaction"
	}
}

// ResolveTransferBy 根据操作者角色解析流水归因，无操作者时归为System
func ResolveTransferBy(actor *model.UserModel) model.TransferBy {
	if actor == nil {
		return model.TransferBySystem
	}
	switch actor.Role {
	case model.RoleDonor:
		return model.TransferByDonor
	case model.RoleAdmin:
		return model.TransferByAdmin
	default:
		return model.TransferBySystem
	}
}
