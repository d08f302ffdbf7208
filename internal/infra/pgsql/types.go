package pgsql

type PageResult[T any] struct {
	List      []T   `json:"list"`
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	PageCount int   `json:"page_count"`
}

func NewPageResult[T any](list []T, total int64, page, pageSize int) *PageResult[T] {
	page, pageSize = normalizePage(page, pageSize)
	return &PageResult[T]{
		List:      list,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		PageCount: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}

// ToMap serializes the page, flattening each model like a Record.
func (p *PageResult[T]) ToMap() map[string]any {
	list := make([]any, 0, len(p.List))
	for i := range p.List {
		list = append(list, ToMap(&p.List[i]))
	}
	return map[string]any{
		"list":       list,
		"total":      p.Total,
		"page":       p.Page,
		"page_size":  p.PageSize,
		"page_count": p.PageCount,
	}
}
