// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/bookstore-api/internal/book"
	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/middleware"
)

type Service struct {
	repo   Repository
	books  book.Repository
	logger *slog.Logger
}

func NewService(
	repo Repository,
	books book.Repository,
	logger *slog.Logger,
) *Service {
	return &Service{repo: repo, books: books, logger: logger}
}

// Create enforces one review per user per book. The existence check on
// the book runs first so a missing book reports BOOK_NOT_FOUND rather
// than a foreign key error; the unique constraint still backstops
// concurrent duplicates.
func (s *Service) Create(
	ctx context.Context,
	principal middleware.Principal,
	req CreateReviewRequest,
) (*Review, error) {
	if _, err := s.books.GetByID(ctx, req.BookID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, bookNotFoundError()
		}
		return nil, err
	}

	comment, err := normalizeComment(&req.Comment)
	if err != nil {
		return nil, err
	}

	rev := &Review{
		ID:      uuid.New().String(),
		BookID:  req.BookID,
		UserID:  principal.ID,
		Rating:  req.Rating,
		Comment: comment,
	}

	if err := s.repo.Create(ctx, rev); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, reviewExistsError()
		}
		return nil, err
	}

	// Re-read to pick up the joined reviewer name and the computed
	// verified-purchase flag.
	created, err := s.repo.GetByID(ctx, rev.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("review created",
		"review_id", created.ID,
		"book_id", created.BookID,
		"user_id", created.UserID,
		"verified", created.Verified,
	)

	return created, nil
}

// ListForBook returns the page of reviews together with the book's
// full rating summary. The summary always covers every review of the
// book, even when the page itself is filtered by rating.
func (s *Service) ListForBook(
	ctx context.Context,
	params ListReviewsParams,
) ([]Review, int, *RatingStats, error) {
	params.Normalize()

	if _, err := s.books.GetByID(ctx, params.BookID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, 0, nil, bookNotFoundError()
		}
		return nil, 0, nil, err
	}

	reviews, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, nil, err
	}

	stats, err := s.repo.Stats(ctx, params.BookID)
	if err != nil {
		return nil, 0, nil, err
	}

	return reviews, total, stats, nil
}

func (s *Service) StatsForBook(
	ctx context.Context,
	bookID string,
) (*RatingStats, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, bookNotFoundError()
		}
		return nil, err
	}

	return s.repo.Stats(ctx, bookID)
}

// GetUserReviewForBook returns the caller's own review, or NOT_FOUND
// when they have not reviewed the book.
func (s *Service) GetUserReviewForBook(
	ctx context.Context,
	userID, bookID string,
) (*Review, error) {
	rev, err := s.repo.GetByUserAndBook(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, reviewNotFoundError()
		}
		return nil, err
	}
	return rev, nil
}

// Update is owner-only. Admins moderate by deletion, not by rewriting
// someone else's words.
func (s *Service) Update(
	ctx context.Context,
	principal middleware.Principal,
	id string,
	req UpdateReviewRequest,
) (*Review, error) {
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, reviewNotFoundError()
		}
		return nil, err
	}

	if rev.UserID != principal.ID {
		return nil, core.ForbiddenError("you can only edit your own reviews")
	}

	if req.Rating != nil {
		rev.Rating = *req.Rating
	}

	if req.Comment != nil {
		comment, err := normalizeComment(req.Comment)
		if err != nil {
			return nil, err
		}
		rev.Comment = comment
	}

	if err := s.repo.Update(ctx, rev); err != nil {
		return nil, err
	}

	s.logger.Info("review updated", "review_id", rev.ID)

	return rev, nil
}

func (s *Service) Delete(
	ctx context.Context,
	principal middleware.Principal,
	id string,
) error {
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return reviewNotFoundError()
		}
		return err
	}

	if rev.UserID != principal.ID && !principal.IsAdmin() {
		return core.ForbiddenError("you can only delete your own reviews")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("review deleted",
		"review_id", id,
		"deleted_by", principal.ID,
	)

	return nil
}

// normalizeComment trims whitespace and treats an empty comment as
// absent. A present comment must be 10 to 2000 characters.
func normalizeComment(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}

	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, nil
	}

	if n := len([]rune(trimmed)); n < minCommentLen || n > maxCommentLen {
		return nil, core.ValidationError(
			fmt.Sprintf(
				"comment must be between %d and %d characters",
				minCommentLen,
				maxCommentLen,
			),
			nil,
		)
	}

	return &trimmed, nil
}

func bookNotFoundError() *core.AppError {
	return core.NewAppError(
		core.ErrNotFound,
		"book not found",
		http.StatusNotFound,
		"BOOK_NOT_FOUND",
	)
}

func reviewNotFoundError() *core.AppError {
	return core.NewAppError(
		core.ErrNotFound,
		"review not found",
		http.StatusNotFound,
		"REVIEW_NOT_FOUND",
	)
}

func reviewExistsError() *core.AppError {
	return core.NewAppError(
		core.ErrDuplicateKey,
		"you have already reviewed this book",
		http.StatusConflict,
		"REVIEW_ALREADY_EXISTS",
	)
}
