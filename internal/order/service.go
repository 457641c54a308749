// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/middleware"
)

type Service struct {
	repo   Repository
	db     *sqlx.DB
	logger *slog.Logger
}

func NewService(repo Repository, db *sqlx.DB, logger *slog.Logger) *Service {
	return &Service{repo: repo, db: db, logger: logger}
}

// Create places an order in a single transaction: each book row is
// locked, stock is checked and decremented, and title and unit price
// are snapshotted into the order items. Duplicate book ids in the
// request are merged before any row is touched.
func (s *Service) Create(
	ctx context.Context,
	principal middleware.Principal,
	req CreateOrderRequest,
) (*Order, error) {
	quantities := make(map[string]int, len(req.Items))
	for _, item := range req.Items {
		quantities[item.BookID] += item.Quantity
	}

	// Deterministic lock order prevents deadlocks between concurrent
	// orders touching the same books.
	bookIDs := make([]string, 0, len(quantities))
	for id := range quantities {
		bookIDs = append(bookIDs, id)
	}
	sort.Strings(bookIDs)

	userID := principal.ID
	o := &Order{
		ID:     uuid.New().String(),
		UserID: &userID,
		Status: StatusPending,
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var total float64
		items := make([]OrderItem, 0, len(bookIDs))

		for _, bookID := range bookIDs {
			qty := quantities[bookID]

			b, err := s.repo.LockBook(ctx, tx, bookID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					return core.NewAppError(
						err,
						"book not found",
						http.StatusNotFound,
						"BOOK_NOT_FOUND",
					)
				}
				return err
			}

			if b.Stock < qty {
				return insufficientStockError(b.Title, b.Stock, qty)
			}

			if err := s.repo.DecrementStock(ctx, tx, bookID, qty); err != nil {
				return err
			}

			bid := b.ID
			items = append(items, OrderItem{
				ID:       uuid.New().String(),
				OrderID:  o.ID,
				BookID:   &bid,
				Title:    b.Title,
				Price:    b.Price,
				Quantity: qty,
			})
			total += b.Price * float64(qty)
		}

		o.Total = math.Round(total*100) / 100
		o.Items = items

		if err := s.repo.InsertOrder(ctx, tx, o); err != nil {
			return err
		}

		for i := range items {
			if err := s.repo.InsertItem(ctx, tx, &items[i]); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		"order_id", o.ID,
		"user_id", principal.ID,
		"total", o.Total,
		"items", len(o.Items),
	)

	return o, nil
}

// GetByID is owner-or-admin.
func (s *Service) GetByID(
	ctx context.Context,
	principal middleware.Principal,
	id string,
) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("order")
		}
		return nil, err
	}

	if !principal.IsAdmin() &&
		(o.UserID == nil || *o.UserID != principal.ID) {
		return nil, core.ForbiddenError("you can only view your own orders")
	}

	return o, nil
}

func (s *Service) ListForUser(
	ctx context.Context,
	userID string,
	params ListOrdersParams,
) ([]Order, int, error) {
	params.UserID = userID
	params.Normalize()
	return s.repo.List(ctx, params)
}

func (s *Service) ListAll(
	ctx context.Context,
	params ListOrdersParams,
) ([]Order, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

// UpdateStatus rejects transitions out of delivered and cancelled.
func (s *Service) UpdateStatus(
	ctx context.Context,
	id, status string,
) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("order")
		}
		return nil, err
	}

	if o.Terminal() {
		return nil, core.ValidationError(
			"order status can no longer be changed", nil)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		"order_id", id,
		"from", o.Status,
		"to", status,
	)

	o.Status = status
	return o, nil
}

func insufficientStockError(title string, available, requested int) *core.AppError {
	appErr := core.NewAppError(
		core.ErrInvalidInput,
		"insufficient stock for "+title,
		http.StatusConflict,
		"INSUFFICIENT_STOCK",
	)
	appErr.Details = map[string]any{
		"title":     title,
		"available": available,
		"requested": requested,
	}
	return appErr
}
