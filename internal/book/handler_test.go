// AngelaMos | 2026
// handler_test.go

package book

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureRepo records the parameters the handler path hands down, so
// tests can assert query-string wiring without a database.
type captureRepo struct {
	listParams   ListBooksParams
	relatedLimit int
}

func (c *captureRepo) GetByID(_ context.Context, id string) (*Book, error) {
	return &Book{ID: id, Title: "Dune", Category: "Sci-Fi"}, nil
}

func (c *captureRepo) List(
	_ context.Context,
	params ListBooksParams,
) ([]Book, int, error) {
	c.listParams = params
	return []Book{}, 0, nil
}

func (c *captureRepo) Related(
	_ context.Context,
	_, _ string,
	limit int,
) ([]Book, error) {
	c.relatedLimit = limit
	return []Book{}, nil
}

func (c *captureRepo) Categories(_ context.Context) ([]string, error) {
	return nil, nil
}

func (c *captureRepo) Create(_ context.Context, _ *Book) error { return nil }
func (c *captureRepo) Update(_ context.Context, _ *Book) error { return nil }
func (c *captureRepo) Delete(_ context.Context, _ string) error {
	return nil
}

func newTestHandler() (*Handler, *captureRepo) {
	repo := &captureRepo{}
	svc := NewService(repo, slog.New(slog.DiscardHandler))
	return NewHandler(svc, validator.New()), repo
}

func TestListReadsSortByParam(t *testing.T) {
	h, repo := newTestHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodGet, "/?sortBy=popular&category=Sci-Fi", nil)
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, SortPopular, repo.listParams.Sort)
	assert.Equal(t, "Sci-Fi", repo.listParams.Category)

	var body struct {
		Success bool                       `json:"success"`
		Data    map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Contains(t, body.Data, "books")
	assert.Contains(t, body.Data, "pagination")
}

func TestRelatedLimitParam(t *testing.T) {
	bookPath := "/7b1e9a60-0000-4000-8000-000000000010/related"

	t.Run("explicit limit", func(t *testing.T) {
		h, repo := newTestHandler()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, bookPath+"?limit=3", nil)
		h.Routes().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 3, repo.relatedLimit)
	})

	t.Run("defaults to six", func(t *testing.T) {
		h, repo := newTestHandler()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, bookPath, nil)
		h.Routes().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 6, repo.relatedLimit)
	})

	t.Run("clamped to the page cap", func(t *testing.T) {
		h, repo := newTestHandler()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, bookPath+"?limit=5000", nil)
		h.Routes().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, maxLimit, repo.relatedLimit)
	})
}

func TestCreateBookAcceptsZeroPrice(t *testing.T) {
	h, _ := newTestHandler()

	body := `{"title":"Free Sampler","author":"Various","price":0,` +
		`"category":"Promo","stock":100}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodPost, "/", strings.NewReader(body))
	h.AdminRoutes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateBookRejectsNegativePrice(t *testing.T) {
	h, _ := newTestHandler()

	body := `{"title":"Broken","author":"Nobody","price":-1,` +
		`"category":"Promo"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodPost, "/", strings.NewReader(body))
	h.AdminRoutes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
