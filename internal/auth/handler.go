// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/bookstore-api/internal/config"
	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/middleware"
	"github.com/carterperez-dev/bookstore-api/internal/user"
)

const RefreshCookieName = "refreshToken"

type Handler struct {
	service  *Service
	tokens   *TokenService
	cookies  config.CookieConfig
	validate *validator.Validate
}

func NewHandler(
	service *Service,
	tokens *TokenService,
	cookies config.CookieConfig,
	validate *validator.Validate,
) *Handler {
	return &Handler{
		service:  service,
		tokens:   tokens,
		cookies:  cookies,
		validate: validate,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.service.Register(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	h.setAuthCookies(w, result)
	core.Created(w, user.NewResponse(result.User))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	h.setAuthCookies(w, result)
	core.OK(w, user.NewResponse(result.User))
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		core.JSONErrorCode(
			w,
			http.StatusUnauthorized,
			"REFRESH_TOKEN_MISSING",
			"refresh token is required",
		)
		return
	}

	result, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.clearAuthCookies(w)
		core.JSONError(w, err)
		return
	}

	h.setAuthCookies(w, result)
	core.OK(w, user.NewResponse(result.User))
}

// Logout clears both cookies. Tokens are stateless so there is nothing
// to revoke server-side; expiry does the rest.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearAuthCookies(w)
	core.OK(w, map[string]string{"message": "logged out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	u, err := h.service.GetCurrentUser(r.Context(), principal.ID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, user.NewResponse(u))
}

func (h *Handler) setAuthCookies(w http.ResponseWriter, result *AuthResult) {
	now := time.Now()

	http.SetCookie(w, h.cookie(
		middleware.AccessCookieName,
		result.AccessToken,
		now.Add(h.tokens.AccessTTL()),
	))
	http.SetCookie(w, h.cookie(
		RefreshCookieName,
		result.RefreshToken,
		now.Add(h.tokens.RefreshTTL()),
	))
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	expired := time.Unix(0, 0)
	http.SetCookie(w, h.cookie(middleware.AccessCookieName, "", expired))
	http.SetCookie(w, h.cookie(RefreshCookieName, "", expired))
}

func (h *Handler) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookies.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
