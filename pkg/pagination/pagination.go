package pagination

import "math"

// Params - разрешенные параметры постраничного вывода (нумерация с нуля)
type Params struct {
	Page  int
	Limit int
	Skip  int
}

// Meta - блок пагинации в ответе API (нумерация страниц с единицы)
type Meta struct {
	TotalItem   int64 `json:"totalItem"`
	Page        int   `json:"page"`
	ItemPerPage int   `json:"itemPerPage"`
	PageCount   int   `json:"pageCount"`
}

// Resolve нормализует пользовательские page/limit.
// page <= 1 трактуется как первая страница, limit <= 0 - как 10.
func Resolve(page, limit int) Params {
	if page <= 1 {
		page = 0
	} else {
		page = page - 1
	}
	if limit <= 0 {
		limit = 10
	}
	return Params{
		Page:  page,
		Limit: limit,
		Skip:  page * limit,
	}
}

// Generate собирает метаданные пагинации для ответа
func Generate(count int64, p Params) Meta {
	pageCount := 0
	if p.Limit > 0 {
		pageCount = int(math.Ceil(float64(count) / float64(p.Limit)))
	}
	return Meta{
		TotalItem:   count,
		Page:        p.Page + 1,
		ItemPerPage: p.Limit,
		PageCount:   pageCount,
	}
}
