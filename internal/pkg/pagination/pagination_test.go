package pagination

import (
	"math"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, Limit: 6}},
		{"page=3&limit=10", Params{Page: 3, Limit: 10}},
		{"page=-1&limit=0", Params{Page: 1, Limit: 6}},
		{"limit=1000", Params{Page: 1, Limit: 100}},
		{"page=abc", Params{Page: 1, Limit: 6}},
		{"page=9223372036854775807&limit=10", Params{Page: math.MaxInt32 / 10, Limit: 10}},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/recipes?"+tc.query, nil)

		assert.Equal(t, tc.want, FromQuery(c, 6, 100), tc.query)
	}
}

func TestWithLinks(t *testing.T) {
	u, _ := url.Parse("/api/recipes?tags=lunch&page=2&limit=2")
	p := Params{Page: 2, Limit: 2}

	pg := New([]int{3, 4}, 5).WithLinks(u, p)

	if assert.NotNil(t, pg.Next) {
		assert.Equal(t, "/api/recipes?limit=2&page=3&tags=lunch", *pg.Next)
	}
	if assert.NotNil(t, pg.Previous) {
		assert.Equal(t, "/api/recipes?limit=2&page=1&tags=lunch", *pg.Previous)
	}

	last := New([]int{5}, 5).WithLinks(u, Params{Page: 3, Limit: 2})
	assert.Nil(t, last.Next)
}

func TestNew_EmptyResultsNotNil(t *testing.T) {
	pg := New[int](nil, 0)
	assert.NotNil(t, pg.Results)
	assert.Len(t, pg.Results, 0)
}

func TestOffset_HugePageStaysPositive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/recipes?page=9223372036854775807&limit=100", nil)

	p := FromQuery(c, 6, 100)
	assert.Greater(t, p.Offset(), 0)

	u, _ := url.Parse("/recipes?page=9223372036854775807&limit=100")
	pg := New([]int{}, 3).WithLinks(u, p)
	assert.Nil(t, pg.Next)
	if assert.NotNil(t, pg.Previous) {
		assert.Contains(t, *pg.Previous, "page=21474835")
	}
}
