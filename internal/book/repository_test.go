// AngelaMos | 2026
// repository_test.go

package book

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func bookRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "author", "description", "price", "category",
		"stock", "image_url", "isbn", "published_year",
		"average_rating", "review_count", "created_at", "updated_at",
	})
}

const testBookID = "7b1e9a60-0000-4000-8000-000000000010"

func TestGetByIDJoinsRatingAggregates(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT[\s\S]+average_rating[\s\S]+FROM books b[\s\S]+WHERE b\.id = \$1`).
		WithArgs(testBookID).
		WillReturnRows(bookRows().AddRow(
			testBookID, "Dune", "Frank Herbert", "sand", 12.99, "Sci-Fi",
			7, "", "9780441172719", 1965, 4.5, 12, now, now,
		))

	b, err := repo.GetByID(context.Background(), testBookID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	assert.InDelta(t, 4.5, b.AverageRating, 0.001)
	assert.Equal(t, 12, b.ReviewCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT[\s\S]+FROM books b`).
		WithArgs(testBookID).
		WillReturnRows(bookRows())

	_, err := repo.GetByID(context.Background(), testBookID)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListCountsWithoutJoinAndPaginates(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM books b WHERE 1=1 AND b\.category = \$1`).
		WithArgs("Sci-Fi").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	now := time.Now()
	mock.ExpectQuery(`SELECT[\s\S]+FROM books b[\s\S]+ORDER BY b\.created_at DESC, b\.id ASC[\s\S]+LIMIT \$2 OFFSET \$3`).
		WithArgs("Sci-Fi", 12, 12).
		WillReturnRows(bookRows().AddRow(
			testBookID, "Dune", "Frank Herbert", "sand", 12.99, "Sci-Fi",
			7, "", "", 1965, 4.5, 12, now, now,
		))

	params := ListBooksParams{Page: 2, Limit: 12, Category: "Sci-Fi"}
	params.Normalize()

	books, total, err := repo.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, books, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListPopularSortOrdersByAggregates(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM books b`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(`ORDER BY COALESCE\(r\.review_count, 0\) DESC, COALESCE\(r\.average_rating, 0\) DESC, b\.id ASC`).
		WithArgs(12, 0).
		WillReturnRows(bookRows())

	params := ListBooksParams{Sort: SortPopular}
	params.Normalize()

	_, _, err := repo.List(context.Background(), params)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListSearchEscapesLikeMetacharacters(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM books b`).
		WithArgs(`%100\% true\_story%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(`b\.title ILIKE \$1 OR b\.author ILIKE \$1`).
		WithArgs(`%100\% true\_story%`, 12, 0).
		WillReturnRows(bookRows())

	params := ListBooksParams{Search: "100% true_story"}
	params.Normalize()

	_, _, err := repo.List(context.Background(), params)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReportsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM books WHERE id = \$1`).
		WithArgs(testBookID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), testBookID)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
