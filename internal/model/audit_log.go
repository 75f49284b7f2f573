package model

import (
	"time"
)

// AuditLogModel 钱包操作审计日志
type AuditLogModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	ActorId        *int64      `json:"actor"`
	Action         AuditAction `json:"action" gorm:"type:varchar(32);not null"`
	TargetObjectId string      `json:"target_object_id" gorm:"size:64"`
	Metadata       string      `json:"metadata" gorm:"type:text"` // JSON字符串
}

// AuditAction 审计动作
type AuditAction string

const (
	AuditWalletCreated       AuditAction = "wallet_created"       // 钱包创建
	AuditWalletCredited      AuditAction = "wallet_credited"      // 钱包入账
	AuditWithdrawalApproved  AuditAction = "withdrawal_approved"  // 提现批准
	AuditWithdrawalRejected  AuditAction = "withdrawal_rejected"  // 提现驳回
)

// TableName 自定义表名
func (AuditLogModel) TableName() string {
	return "audit_log"
}
