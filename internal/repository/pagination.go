package repository

import "gorm.io/gorm"

// maxPageSize 单页上限，超过按上限截断
const maxPageSize = 100

// applyPagination 应用分页参数
// 非法页码归一到第 1 页；pageSize <= 0 表示调用方自行限制，不分页。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
