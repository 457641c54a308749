// AngelaMos | 2026
// handler_test.go

package review

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(repo *fakeRepo) *Handler {
	return NewHandler(newTestService(repo), validator.New())
}

func seedReview(t *testing.T, repo *fakeRepo, rating int) {
	t.Helper()
	svc := newTestService(repo)
	_, err := svc.Create(context.Background(), owner(), CreateReviewRequest{
		BookID: testBookID,
		Rating: rating,
	})
	require.NoError(t, err)
}

func TestListForBookReadsSortByParam(t *testing.T) {
	repo := newFakeRepo()
	h := newTestHandler(repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodGet, "/?bookId="+testBookID+"&sortBy=highest", nil)
	h.ListForBook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, SortHighest, repo.lastList.Sort)
}

// The list payload carries the reviews page, the pagination block, and
// the whole-book rating summary side by side.
func TestListForBookEnvelopeShape(t *testing.T) {
	repo := newFakeRepo()
	seedReview(t, repo, 4)
	h := newTestHandler(repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodGet, "/?bookId="+testBookID, nil)
	h.ListForBook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Reviews    []map[string]json.RawMessage `json:"reviews"`
			Pagination map[string]json.RawMessage   `json:"pagination"`
			Summary    struct {
				AverageRating      float64     `json:"averageRating"`
				TotalReviews       int         `json:"totalReviews"`
				RatingDistribution map[int]int `json:"ratingDistribution"`
			} `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.Reviews, 1)
	assert.Contains(t, body.Data.Reviews[0], "isVerifiedPurchase")
	assert.Contains(t, body.Data.Pagination, "totalItems")
	assert.Equal(t, 1, body.Data.Summary.TotalReviews)
	assert.InDelta(t, 4.0, body.Data.Summary.AverageRating, 0.001)
	assert.Len(t, body.Data.Summary.RatingDistribution, 5)
}

func TestListForBookRequiresBookID(t *testing.T) {
	h := newTestHandler(newFakeRepo())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?bookId=not-a-uuid", nil)
	h.ListForBook(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
