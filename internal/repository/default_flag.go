package repository

import "gorm.io/gorm"

// resetDefaultInScope 将同一作用域内除 excludeID 外的默认标记全部清除。
// 必须与目标行的写入处于同一事务，先清除再保存，保证作用域内至多一条默认记录。
func resetDefaultInScope(tx *gorm.DB, model interface{}, excludeID uint, scope map[string]interface{}) error {
	query := tx.Model(model).Where("is_default = ?", true)
	for column, value := range scope {
		query = query.Where(column+" = ?", value)
	}
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	return query.Update("is_default", false).Error
}
