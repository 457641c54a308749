// AngelaMos | 2026
// repository.go

package book

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
	List(ctx context.Context, params ListBooksParams) ([]Book, int, error)
	GetByID(ctx context.Context, id string) (*Book, error)
	Related(ctx context.Context, id, category string, limit int) ([]Book, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id string) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// ratingAggregates is joined onto book queries so every listed book
// carries its average rating and review count without a per-row
// fan-out. Ratings are rounded to one decimal.
const ratingAggregates = `
	LEFT JOIN (
		SELECT
			book_id,
			ROUND(AVG(rating)::numeric, 1)::float8 AS average_rating,
			COUNT(*) AS review_count
		FROM reviews
		GROUP BY book_id
	) r ON r.book_id = b.id`

const bookColumns = `
	b.id, b.title, b.author, b.description, b.price, b.category,
	b.stock, b.image_url, b.isbn, b.published_year,
	COALESCE(r.average_rating, 0) AS average_rating,
	COALESCE(r.review_count, 0) AS review_count,
	b.created_at, b.updated_at`

func (r *postgresRepository) List(
	ctx context.Context,
	params ListBooksParams,
) ([]Book, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(b.title ILIKE $%d OR b.author ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argPos++
	}

	if params.Category != "" {
		conditions = append(conditions, fmt.Sprintf("b.category = $%d", argPos))
		args = append(args, params.Category)
		argPos++
	}

	if params.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("b.price >= $%d", argPos))
		args = append(args, *params.MinPrice)
		argPos++
	}

	if params.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("b.price <= $%d", argPos))
		args = append(args, *params.MaxPrice)
		argPos++
	}

	if params.InStock {
		conditions = append(conditions, "b.stock > 0")
	}

	where := strings.Join(conditions, " AND ")

	// The count does not need the aggregation join; the filters only
	// touch book columns.
	var total int
	countQuery := `SELECT COUNT(*) FROM books b WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT`+bookColumns+`
		FROM books b`+ratingAggregates+`
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		where, orderClause(params.Sort), argPos, argPos+1,
	)
	args = append(args, params.Limit, (params.Page-1)*params.Limit)

	books := []Book{}
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	return books, total, nil
}

// orderClause always ends with b.id so pages are stable when the sort
// key ties.
func orderClause(sort string) string {
	switch sort {
	case SortPriceAsc:
		return "b.price ASC, b.id ASC"
	case SortPriceDesc:
		return "b.price DESC, b.id ASC"
	case SortTitle:
		return "b.title ASC, b.id ASC"
	case SortPopular:
		// Popularity is review volume; rating only breaks ties.
		return "COALESCE(r.review_count, 0) DESC, " +
			"COALESCE(r.average_rating, 0) DESC, b.id ASC"
	default:
		return "b.created_at DESC, b.id ASC"
	}
}

func (r *postgresRepository) GetByID(
	ctx context.Context,
	id string,
) (*Book, error) {
	query := `SELECT` + bookColumns + `
		FROM books b` + ratingAggregates + `
		WHERE b.id = $1`

	var b Book
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get book: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	return &b, nil
}

func (r *postgresRepository) Related(
	ctx context.Context,
	id, category string,
	limit int,
) ([]Book, error) {
	query := `SELECT` + bookColumns + `
		FROM books b` + ratingAggregates + `
		WHERE b.category = $1 AND b.id <> $2 AND b.stock > 0
		ORDER BY b.created_at DESC, b.id ASC
		LIMIT $3`

	books := []Book{}
	err := r.db.SelectContext(ctx, &books, query, category, id, limit)
	if err != nil {
		return nil, fmt.Errorf("related books: %w", err)
	}

	return books, nil
}

func (r *postgresRepository) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := r.db.SelectContext(
		ctx,
		&categories,
		`SELECT DISTINCT category FROM books ORDER BY category ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *postgresRepository) Create(ctx context.Context, b *Book) error {
	query := `
		INSERT INTO books (
			id, title, author, description, price, category,
			stock, image_url, isbn, published_year
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		b.ID,
		b.Title,
		b.Author,
		b.Description,
		b.Price,
		b.Category,
		b.Stock,
		b.ImageURL,
		b.ISBN,
		b.PublishedYear,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create book: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create book: %w", err)
	}

	return nil
}

func (r *postgresRepository) Update(ctx context.Context, b *Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, description = $4, price = $5,
			category = $6, stock = $7, image_url = $8, isbn = $9,
			published_year = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		b.ID,
		b.Title,
		b.Author,
		b.Description,
		b.Price,
		b.Category,
		b.Stock,
		b.ImageURL,
		b.ISBN,
		b.PublishedYear,
	).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update book: %w", core.ErrNotFound)
		}
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("update book: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update book: %w", err)
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete book: %w", core.ErrNotFound)
	}

	return nil
}
