package shoplist

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"foodgram/internal/repository"
)

type stubRenderer struct {
	got []Line
	err error
}

func (s *stubRenderer) Render(w io.Writer, lines []Line, _ time.Time) error {
	s.got = lines
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, "%PDF-stub")
	return err
}

func (s *stubRenderer) ContentType() string { return "application/pdf" }
func (s *stubRenderer) FileName() string    { return "shopping-list.pdf" }

func newRouter(src CartSource, r Renderer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	g := e.Group("/api", func(c *gin.Context) {
		c.Set("user_id", int64(3))
		c.Next()
	})
	NewHandler(NewService(src), r).RegisterRoutes(g)
	return e
}

func TestDownload(t *testing.T) {
	src := new(mockSource)
	src.On("CartIngredientRows", mock.Anything, int64(3)).Return([]repository.CartIngredientRow{
		{Name: "Flour", MeasurementUnit: "g", Amount: 200},
		{Name: "Flour", MeasurementUnit: "g", Amount: 100},
	}, nil)
	rend := &stubRenderer{}

	w := httptest.NewRecorder()
	newRouter(src, rend).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recipes/download_shopping_cart", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="shopping-list.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-stub", w.Body.String())
	assert.Equal(t, []Line{{Name: "Flour", MeasurementUnit: "g", TotalAmount: 300}}, rend.got)
}

func TestDownload_RenderError(t *testing.T) {
	src := new(mockSource)
	src.On("CartIngredientRows", mock.Anything, int64(3)).Return([]repository.CartIngredientRow{}, nil)

	w := httptest.NewRecorder()
	newRouter(src, &stubRenderer{err: errors.New("boom")}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recipes/download_shopping_cart", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
