package logic

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate 给查询加行级写锁，持有到事务提交
// SQLite不支持FOR UPDATE语法，其写入本身是单写者串行的，直接跳过
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
