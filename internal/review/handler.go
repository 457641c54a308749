// AngelaMos | 2026
// handler.go

package review

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/middleware"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

// Routes mixes public reads with authenticated mutations on the same
// subtree; authenticate wraps only the latter.
func (h *Handler) Routes(
	authenticate func(http.Handler) http.Handler,
) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListForBook)
	r.Get("/stats/{bookId}", h.Stats)

	r.Group(func(pr chi.Router) {
		pr.Use(authenticate)
		pr.Post("/", h.Create)
		pr.Get("/user/{bookId}", h.GetUserReview)
		pr.Put("/{id}", h.Update)
		pr.Delete("/{id}", h.Delete)
	})

	return r
}

func (h *Handler) ListForBook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	bookID := q.Get("bookId")
	if _, err := uuid.Parse(bookID); err != nil {
		core.BadRequest(w, "bookId is required and must be a valid id")
		return
	}

	params := ListReviewsParams{
		BookID: bookID,
		Page:   core.QueryInt(q, "page", 1),
		Limit:  core.QueryInt(q, "limit", defaultLimit),
		Rating: core.QueryIntPtr(q, "rating"),
		Sort:   q.Get("sortBy"),
	}

	reviews, total, stats, err := h.service.ListForBook(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	params.Normalize()
	core.OK(w, map[string]any{
		"reviews":    reviews,
		"pagination": core.NewPagination(params.Page, params.Limit, total),
		"summary":    stats,
	})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookId")
	if _, err := uuid.Parse(bookID); err != nil {
		core.BadRequest(w, "invalid book id")
		return
	}

	stats, err := h.service.StatsForBook(r.Context(), bookID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) GetUserReview(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	bookID := chi.URLParam(r, "bookId")
	if _, err := uuid.Parse(bookID); err != nil {
		core.BadRequest(w, "invalid book id")
		return
	}

	rev, err := h.service.GetUserReviewForBook(r.Context(), principal.ID, bookID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, rev)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	rev, err := h.service.Create(r.Context(), principal, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, rev)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		core.BadRequest(w, "invalid review id")
		return
	}

	var req UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	rev, err := h.service.Update(r.Context(), principal, id, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, rev)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		core.BadRequest(w, "invalid review id")
		return
	}

	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
