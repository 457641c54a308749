// AngelaMos | 2026
// repository.go

package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, rev *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	GetByUserAndBook(ctx context.Context, userID, bookID string) (*Review, error)
	List(ctx context.Context, params ListReviewsParams) ([]Review, int, error)
	Stats(ctx context.Context, bookID string) (*RatingStats, error)
	Update(ctx context.Context, rev *Review) error
	Delete(ctx context.Context, id string) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// The verified flag is evaluated per read against current order state,
// not persisted, so a delivery after the review was written promotes
// it on the next fetch.
const reviewColumns = `
	rv.id, rv.book_id, rv.user_id, u.name AS user_name,
	rv.rating, rv.comment,
	EXISTS (
		SELECT 1
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.user_id = rv.user_id
			AND oi.book_id = rv.book_id
			AND o.status = 'delivered'
	) AS verified,
	rv.created_at, rv.updated_at`

const reviewFrom = `
	FROM reviews rv
	JOIN users u ON u.id = rv.user_id`

func (r *postgresRepository) Create(ctx context.Context, rev *Review) error {
	query := `
		INSERT INTO reviews (id, book_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		rev.ID,
		rev.BookID,
		rev.UserID,
		rev.Rating,
		rev.Comment,
	).Scan(&rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create review: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(
	ctx context.Context,
	id string,
) (*Review, error) {
	query := `SELECT` + reviewColumns + reviewFrom + ` WHERE rv.id = $1`

	var rev Review
	if err := r.db.GetContext(ctx, &rev, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get review: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &rev, nil
}

func (r *postgresRepository) GetByUserAndBook(
	ctx context.Context,
	userID, bookID string,
) (*Review, error) {
	query := `SELECT` + reviewColumns + reviewFrom + `
		WHERE rv.user_id = $1 AND rv.book_id = $2`

	var rev Review
	if err := r.db.GetContext(ctx, &rev, query, userID, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get user review: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get user review: %w", err)
	}

	return &rev, nil
}

func (r *postgresRepository) List(
	ctx context.Context,
	params ListReviewsParams,
) ([]Review, int, error) {
	conditions := []string{"rv.book_id = $1"}
	args := []any{params.BookID}
	argPos := 2

	if params.Rating != nil {
		conditions = append(conditions, fmt.Sprintf("rv.rating = $%d", argPos))
		args = append(args, *params.Rating)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM reviews rv WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT`+reviewColumns+reviewFrom+`
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		where, reviewOrderClause(params.Sort), argPos, argPos+1,
	)
	args = append(args, params.Limit, (params.Page-1)*params.Limit)

	reviews := []Review{}
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, total, nil
}

// reviewOrderClause; rating sorts tie-break on recency so equal-rated
// reviews surface newest first.
func reviewOrderClause(sort string) string {
	switch sort {
	case SortOldest:
		return "rv.created_at ASC, rv.id ASC"
	case SortHighest:
		return "rv.rating DESC, rv.created_at DESC, rv.id ASC"
	case SortLowest:
		return "rv.rating ASC, rv.created_at DESC, rv.id ASC"
	default:
		return "rv.created_at DESC, rv.id ASC"
	}
}

func (r *postgresRepository) Stats(
	ctx context.Context,
	bookID string,
) (*RatingStats, error) {
	stats := NewRatingStats()

	rows, err := r.db.QueryxContext(
		ctx,
		`SELECT rating, COUNT(*) FROM reviews
		WHERE book_id = $1
		GROUP BY rating`,
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	sum := 0
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("review stats: %w", err)
		}
		if rating >= 1 && rating <= 5 {
			stats.Distribution[rating] = count
			stats.Total += count
			sum += rating * count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}

	if stats.Total > 0 {
		// One decimal, matching the catalog's aggregated rating.
		stats.Average = float64((sum*10+stats.Total/2)/stats.Total) / 10
	}

	return stats, nil
}

func (r *postgresRepository) Update(ctx context.Context, rev *Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, comment = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		rev.ID,
		rev.Rating,
		rev.Comment,
	).Scan(&rev.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update review: %w", core.ErrNotFound)
		}
		return fmt.Errorf("update review: %w", err)
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM reviews WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete review: %w", core.ErrNotFound)
	}

	return nil
}
