package pagination

import (
	"math"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Params: номер страницы (с 1) и её размер.
type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// FromQuery читает ?page= и ?limit=. Некорректные значения заменяются
// значениями по умолчанию, limit ограничен сверху maxLimit. page
// ограничен так, чтобы смещение укладывалось в int32.
func FromQuery(c *gin.Context, defaultLimit, maxLimit int) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = max(defaultLimit, 1)
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if maxPage := math.MaxInt32 / limit; page > maxPage {
		page = maxPage
	}
	return Params{Page: page, Limit: limit}
}

// Page: ответ со списком в формате {count, next, previous, results}.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func New[T any](items []T, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Count: total, Results: items}
}

// WithLinks проставляет ссылки next/previous относительно текущего запроса.
func (pg Page[T]) WithLinks(u *url.URL, p Params) Page[T] {
	if int64(p.Page*p.Limit) < pg.Count {
		next := pageURL(u, p.Page+1)
		pg.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(u, p.Page-1)
		pg.Previous = &prev
	}
	return pg
}

func pageURL(u *url.URL, page int) string {
	cp := *u
	q := cp.Query()
	q.Set("page", strconv.Itoa(page))
	cp.RawQuery = q.Encode()
	return cp.RequestURI()
}
