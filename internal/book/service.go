// AngelaMos | 2026
// service.go

package book

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

const defaultRelatedLimit = 6

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(
	ctx context.Context,
	params ListBooksParams,
) ([]Book, int, error) {
	params.Normalize()

	if params.MinPrice != nil && params.MaxPrice != nil &&
		*params.MinPrice > *params.MaxPrice {
		return nil, 0, core.ValidationError(
			"minPrice must not exceed maxPrice", nil)
	}

	return s.repo.List(ctx, params)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, bookNotFoundError()
		}
		return nil, err
	}
	return b, nil
}

// Related returns in-stock books from the same category, newest
// first. A non-positive limit falls back to the default of six, and
// the catalog page cap applies.
func (s *Service) Related(
	ctx context.Context,
	id string,
	limit int,
) ([]Book, error) {
	if limit < 1 {
		limit = defaultRelatedLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, bookNotFoundError()
		}
		return nil, err
	}

	return s.repo.Related(ctx, b.ID, b.Category, limit)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateBookRequest,
) (*Book, error) {
	b := &Book{
		ID:            uuid.New().String(),
		Title:         strings.TrimSpace(req.Title),
		Author:        strings.TrimSpace(req.Author),
		Description:   strings.TrimSpace(req.Description),
		Price:         req.Price,
		Category:      strings.TrimSpace(req.Category),
		Stock:         req.Stock,
		ImageURL:      req.ImageURL,
		ISBN:          req.ISBN,
		PublishedYear: req.PublishedYear,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("isbn")
		}
		return nil, err
	}

	s.logger.Info("book created", "book_id", b.ID, "title", b.Title)

	return b, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateBookRequest,
) (*Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, bookNotFoundError()
		}
		return nil, err
	}

	if req.Title != nil {
		b.Title = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		b.Author = strings.TrimSpace(*req.Author)
	}
	if req.Description != nil {
		b.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		b.Price = *req.Price
	}
	if req.Category != nil {
		b.Category = strings.TrimSpace(*req.Category)
	}
	if req.Stock != nil {
		b.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		b.ImageURL = *req.ImageURL
	}
	if req.ISBN != nil {
		b.ISBN = *req.ISBN
	}
	if req.PublishedYear != nil {
		b.PublishedYear = *req.PublishedYear
	}

	if err := s.repo.Update(ctx, b); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("isbn")
		}
		return nil, err
	}

	s.logger.Info("book updated", "book_id", b.ID)

	return b, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return bookNotFoundError()
		}
		return err
	}

	s.logger.Info("book deleted", "book_id", id)

	return nil
}

func bookNotFoundError() *core.AppError {
	return core.NewAppError(
		core.ErrNotFound,
		"book not found",
		http.StatusNotFound,
		"BOOK_NOT_FOUND",
	)
}
