// AngelaMos | 2026
// repository.go

package order

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
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, params ListOrdersParams) ([]Order, int, error)
	UpdateStatus(ctx context.Context, id, status string) error

	// Transactional pieces used by Service.Create inside one tx.
	LockBook(ctx context.Context, tx *sqlx.Tx, bookID string) (*bookRow, error)
	DecrementStock(ctx context.Context, tx *sqlx.Tx, bookID string, qty int) error
	InsertOrder(ctx context.Context, tx *sqlx.Tx, o *Order) error
	InsertItem(ctx context.Context, tx *sqlx.Tx, item *OrderItem) error
}

// bookRow is the slice of the books table an order needs: current
// price and title for the snapshot, stock for the availability check.
type bookRow struct {
	ID    string  `db:"id"`
	Title string  `db:"title"`
	Price float64 `db:"price"`
	Stock int     `db:"stock"`
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetByID(
	ctx context.Context,
	id string,
) (*Order, error) {
	var o Order
	err := r.db.GetContext(
		ctx,
		&o,
		`SELECT id, user_id, status, total, created_at, updated_at
		FROM orders WHERE id = $1`,
		id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := r.loadItems(ctx, []*Order{&o}); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *postgresRepository) List(
	ctx context.Context,
	params ListOrdersParams,
) ([]Order, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if params.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argPos))
		args = append(args, params.UserID)
		argPos++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, params.Status)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM orders WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, user_id, status, total, created_at, updated_at
		FROM orders
		WHERE %s
		ORDER BY created_at DESC, id ASC
		LIMIT $%d OFFSET $%d`,
		where, argPos, argPos+1,
	)
	args = append(args, params.Limit, (params.Page-1)*params.Limit)

	orders := []Order{}
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	refs := make([]*Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.loadItems(ctx, refs); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// loadItems hydrates items for a page of orders in one query.
func (r *postgresRepository) loadItems(
	ctx context.Context,
	orders []*Order,
) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	byID := make(map[string]*Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Items = []OrderItem{}
	}

	query, args, err := sqlx.In(
		`SELECT id, order_id, book_id, title, price, quantity
		FROM order_items
		WHERE order_id IN (?)
		ORDER BY id ASC`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	query = r.db.Rebind(query)

	items := []OrderItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return fmt.Errorf("load order items: %w", err)
	}

	for _, item := range items {
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	return nil
}

func (r *postgresRepository) UpdateStatus(
	ctx context.Context,
	id, status string,
) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`,
		id,
		status,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update order status: %w", core.ErrNotFound)
	}

	return nil
}

// LockBook reads the book row FOR UPDATE so concurrent orders cannot
// both pass the stock check.
func (r *postgresRepository) LockBook(
	ctx context.Context,
	tx *sqlx.Tx,
	bookID string,
) (*bookRow, error) {
	var b bookRow
	err := tx.GetContext(
		ctx,
		&b,
		`SELECT id, title, price, stock FROM books WHERE id = $1 FOR UPDATE`,
		bookID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lock book: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("lock book: %w", err)
	}

	return &b, nil
}

func (r *postgresRepository) DecrementStock(
	ctx context.Context,
	tx *sqlx.Tx,
	bookID string,
	qty int,
) error {
	_, err := tx.ExecContext(
		ctx,
		`UPDATE books SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1`,
		bookID,
		qty,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	return nil
}

func (r *postgresRepository) InsertOrder(
	ctx context.Context,
	tx *sqlx.Tx,
	o *Order,
) error {
	err := tx.QueryRowxContext(
		ctx,
		`INSERT INTO orders (id, user_id, status, total)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		o.ID,
		o.UserID,
		o.Status,
		o.Total,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (r *postgresRepository) InsertItem(
	ctx context.Context,
	tx *sqlx.Tx,
	item *OrderItem,
) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO order_items (id, order_id, book_id, title, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID,
		item.OrderID,
		item.BookID,
		item.Title,
		item.Price,
		item.Quantity,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}

	return nil
}
