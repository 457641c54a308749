// AngelaMos | 2026
// service_test.go

package order

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/middleware"
)

const (
	buyerID   = "a4f7c8d2-0000-4000-8000-000000000001"
	bookOneID = "7b1e9a60-0000-4000-8000-000000000010"
	bookTwoID = "7b1e9a60-0000-4000-8000-000000000011"
)

func newTestOrderService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return NewService(repo, sqlxDB, slog.New(slog.DiscardHandler)), mock
}

func buyer() middleware.Principal {
	return middleware.Principal{ID: buyerID, Role: "user"}
}

func bookLockRows(id, title string, price float64, stock int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "price", "stock"}).
		AddRow(id, title, price, stock)
}

func TestCreateOrderSnapshotsAndDecrementsStock(t *testing.T) {
	svc, mock := newTestOrderService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, title, price, stock FROM books WHERE id = \$1 FOR UPDATE`).
		WithArgs(bookOneID).
		WillReturnRows(bookLockRows(bookOneID, "Dune", 12.99, 7))
	mock.ExpectExec(`UPDATE books SET stock = stock - \$2`).
		WithArgs(bookOneID, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(sqlmock.AnyArg(), buyerID, StatusPending, 25.98).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(time.Now(), time.Now()))
	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			bookOneID,
			"Dune",
			12.99,
			2,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	o, err := svc.Create(context.Background(), buyer(), CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookOneID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.InDelta(t, 25.98, o.Total, 0.001)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Dune", o.Items[0].Title)
	assert.InDelta(t, 12.99, o.Items[0].Price, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	svc, mock := newTestOrderService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(bookOneID).
		WillReturnRows(bookLockRows(bookOneID, "Dune", 12.99, 1))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), buyer(), CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookOneID, Quantity: 3}},
	})
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", appErr.Code)
	assert.Equal(t, 409, appErr.Status)

	details, ok := appErr.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, details["available"])
	assert.Equal(t, 3, details["requested"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderUnknownBookRollsBack(t *testing.T) {
	svc, mock := newTestOrderService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(bookOneID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "stock"}))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), buyer(), CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookOneID, Quantity: 1}},
	})
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "BOOK_NOT_FOUND", appErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Duplicate line items are merged, and books are locked in sorted id
// order regardless of request order.
func TestCreateOrderMergesDuplicatesAndSortsLocks(t *testing.T) {
	svc, mock := newTestOrderService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(bookOneID).
		WillReturnRows(bookLockRows(bookOneID, "Dune", 10.00, 10))
	mock.ExpectExec(`UPDATE books SET stock = stock - \$2`).
		WithArgs(bookOneID, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(bookTwoID).
		WillReturnRows(bookLockRows(bookTwoID, "Hyperion", 5.00, 10))
	mock.ExpectExec(`UPDATE books SET stock = stock - \$2`).
		WithArgs(bookTwoID, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(sqlmock.AnyArg(), buyerID, StatusPending, 35.00).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(time.Now(), time.Now()))
	mock.ExpectExec(`INSERT INTO order_items`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	o, err := svc.Create(context.Background(), buyer(), CreateOrderRequest{
		Items: []OrderItemRequest{
			{BookID: bookTwoID, Quantity: 1},
			{BookID: bookOneID, Quantity: 1},
			{BookID: bookOneID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	assert.InDelta(t, 35.00, o.Total, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Orders outlive their buyer: user_id goes NULL on account deletion.
// Such orders stay readable to admins and are never attributed to any
// remaining user.
func TestGetOrderWithDeletedBuyer(t *testing.T) {
	orderID := "c0ffee00-0000-4000-8000-000000000002"

	orphanedRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "user_id", "status", "total", "created_at", "updated_at",
		}).AddRow(orderID, nil, StatusDelivered, 10.0, time.Now(), time.Now())
	}
	itemRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "order_id", "book_id", "title", "price", "quantity",
		}).AddRow(
			"d00dfeed-0000-4000-8000-000000000001",
			orderID, nil, "Dune", 10.0, 1,
		)
	}

	t.Run("admin can read it", func(t *testing.T) {
		svc, mock := newTestOrderService(t)
		mock.ExpectQuery(`SELECT id, user_id, status, total, created_at, updated_at`).
			WithArgs(orderID).
			WillReturnRows(orphanedRows())
		mock.ExpectQuery(`FROM order_items`).
			WillReturnRows(itemRows())

		admin := middleware.Principal{ID: buyerID, Role: "admin"}
		o, err := svc.GetByID(context.Background(), admin, orderID)
		require.NoError(t, err)
		assert.Nil(t, o.UserID)
		require.Len(t, o.Items, 1)
		assert.Nil(t, o.Items[0].BookID)
		assert.Equal(t, "Dune", o.Items[0].Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("regular user cannot claim it", func(t *testing.T) {
		svc, mock := newTestOrderService(t)
		mock.ExpectQuery(`SELECT id, user_id, status, total, created_at, updated_at`).
			WithArgs(orderID).
			WillReturnRows(orphanedRows())
		mock.ExpectQuery(`FROM order_items`).
			WillReturnRows(itemRows())

		_, err := svc.GetByID(context.Background(), buyer(), orderID)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrForbidden)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateStatusRejectsTerminalOrders(t *testing.T) {
	svc, mock := newTestOrderService(t)

	orderID := "c0ffee00-0000-4000-8000-000000000001"

	mock.ExpectQuery(`SELECT id, user_id, status, total, created_at, updated_at`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "status", "total", "created_at", "updated_at",
		}).AddRow(orderID, buyerID, StatusDelivered, 10.0, time.Now(), time.Now()))
	mock.ExpectQuery(`FROM order_items`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_id", "book_id", "title", "price", "quantity",
		}))

	_, err := svc.UpdateStatus(context.Background(), orderID, StatusShipped)
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		StatusPending, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled,
	} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("returned"))
	assert.False(t, ValidStatus(""))
}
