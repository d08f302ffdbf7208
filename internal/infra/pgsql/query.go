package pgsql

import "gorm.io/gorm"

// 分页
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		page, pageSize = normalizePage(page, pageSize)
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// 模糊查询
func Like(field string, value string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(field+" ILIKE ?", "%"+value+"%")
	}
}

// 排序
func Order(field string, desc bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		order := field
		if desc {
			order += " DESC"
		} else {
			order += " ASC"
		}
		return db.Order(order)
	}
}

// Map 条件查询
func WhereMap(conds map[string]interface{}) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(conds)
	}
}

// FindPage counts the rows matching conds and loads one page of them.
func FindPage[T any](db *gorm.DB, page, pageSize int, conds ...func(*gorm.DB) *gorm.DB) (*PageResult[T], error) {
	page, pageSize = normalizePage(page, pageSize)
	var list []T
	var total int64
	scoped := db.Model(new(T)).Scopes(conds...).Session(&gorm.Session{})
	if err := scoped.Count(&total).Error; err != nil {
		return nil, err
	}
	if err := scoped.Scopes(Paginate(page, pageSize)).Find(&list).Error; err != nil {
		return nil, err
	}
	return NewPageResult(list, total, page, pageSize), nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return page, pageSize
}
