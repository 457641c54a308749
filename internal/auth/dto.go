// AngelaMos | 2026
// dto.go

package auth

import (
	"github.com/carterperez-dev/bookstore-api/internal/user"
)

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult carries the freshly minted token pair alongside the user;
// the handler turns the tokens into cookies and never exposes them in
// the body.
type AuthResult struct {
	User         *user.User
	AccessToken  string
	RefreshToken string
}
