// AngelaMos | 2026
// dto_test.go

package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListBooksParamsNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        ListBooksParams
		wantPage  int
		wantLimit int
		wantSort  string
	}{
		{
			name:      "defaults",
			in:        ListBooksParams{},
			wantPage:  1,
			wantLimit: defaultLimit,
			wantSort:  SortRecent,
		},
		{
			name:      "negative page clamps to one",
			in:        ListBooksParams{Page: -3, Limit: 20, Sort: SortTitle},
			wantPage:  1,
			wantLimit: 20,
			wantSort:  SortTitle,
		},
		{
			name:      "limit above max clamps",
			in:        ListBooksParams{Page: 2, Limit: 500, Sort: SortPopular},
			wantPage:  2,
			wantLimit: maxLimit,
			wantSort:  SortPopular,
		},
		{
			name:      "unknown sort falls back",
			in:        ListBooksParams{Page: 1, Limit: 10, Sort: "cheapest"},
			wantPage:  1,
			wantLimit: 10,
			wantSort:  SortRecent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			assert.Equal(t, tt.wantPage, tt.in.Page)
			assert.Equal(t, tt.wantLimit, tt.in.Limit)
			assert.Equal(t, tt.wantSort, tt.in.Sort)
		})
	}
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{SortRecent, "b.created_at DESC, b.id ASC"},
		{SortPriceAsc, "b.price ASC, b.id ASC"},
		{SortPriceDesc, "b.price DESC, b.id ASC"},
		{SortTitle, "b.title ASC, b.id ASC"},
		{
			SortPopular,
			"COALESCE(r.review_count, 0) DESC, " +
				"COALESCE(r.average_rating, 0) DESC, b.id ASC",
		},
		{"bogus", "b.created_at DESC, b.id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.sort))
		})
	}
}
