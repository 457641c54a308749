// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/bookstore-api/internal/config"
	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/middleware"
)

// TokenService issues and verifies the two stateless bearer tokens:
// a short-lived access token (id, email, role) and a long-lived
// refresh token (id, email), each signed with its own HS256 secret so
// one cannot stand in for the other.
type TokenService struct {
	accessKey  jwk.Key
	refreshKey jwk.Key
	accessTTL  time.Duration
	refreshTTL time.Duration
	config     config.JWTConfig
}

func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	accessTTL, err := ParseExpiry(cfg.AccessExpiry)
	if err != nil {
		return nil, fmt.Errorf("parse access expiry: %w", err)
	}

	refreshTTL, err := ParseExpiry(cfg.RefreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("parse refresh expiry: %w", err)
	}

	accessKey, err := jwk.Import([]byte(cfg.AccessSecret))
	if err != nil {
		return nil, fmt.Errorf("import access secret: %w", err)
	}

	refreshKey, err := jwk.Import([]byte(cfg.RefreshSecret))
	if err != nil {
		return nil, fmt.Errorf("import refresh secret: %w", err)
	}

	return &TokenService{
		accessKey:  accessKey,
		refreshKey: refreshKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		config:     cfg,
	}, nil
}

func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

type UserClaims struct {
	ID    string
	Email string
	Role  string
}

func (s *TokenService) CreateAccessToken(claims UserClaims) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(s.config.Issuer).
		Audience([]string{s.config.Audience}).
		Subject(claims.ID).
		IssuedAt(now).
		Expiration(now.Add(s.accessTTL)).
		NotBefore(now).
		Claim("email", claims.Email).
		Claim("role", claims.Role).
		Claim("type", "access").
		Build()
	if err != nil {
		return "", fmt.Errorf("build access token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), s.accessKey))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return string(signed), nil
}

func (s *TokenService) CreateRefreshToken(claims UserClaims) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(s.config.Issuer).
		Audience([]string{s.config.Audience}).
		Subject(claims.ID).
		IssuedAt(now).
		Expiration(now.Add(s.refreshTTL)).
		NotBefore(now).
		Claim("email", claims.Email).
		Claim("type", "refresh").
		Build()
	if err != nil {
		return "", fmt.Errorf("build refresh token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), s.refreshKey))
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}

	return string(signed), nil
}

func (s *TokenService) VerifyAccessToken(
	ctx context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	token, err := s.verify(tokenString, s.accessKey, "access")
	if err != nil {
		return nil, err
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify access token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var email string
	if err := token.Get("email", &email); err != nil {
		return nil, fmt.Errorf(
			"verify access token: missing email claim: %w",
			core.ErrTokenInvalid,
		)
	}

	var role string
	if err := token.Get("role", &role); err != nil {
		return nil, fmt.Errorf(
			"verify access token: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	return &middleware.AccessTokenClaims{
		UserID: subject,
		Email:  email,
		Role:   role,
	}, nil
}

type RefreshClaims struct {
	UserID string
	Email  string
}

func (s *TokenService) VerifyRefreshToken(
	ctx context.Context,
	tokenString string,
) (*RefreshClaims, error) {
	token, err := s.verify(tokenString, s.refreshKey, "refresh")
	if err != nil {
		return nil, err
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify refresh token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var email string
	if err := token.Get("email", &email); err != nil {
		return nil, fmt.Errorf(
			"verify refresh token: missing email claim: %w",
			core.ErrTokenInvalid,
		)
	}

	return &RefreshClaims{UserID: subject, Email: email}, nil
}

func (s *TokenService) verify(
	tokenString string,
	key jwk.Key,
	wantType string,
) (jwt.Token, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), key),
		jwt.WithValidate(true),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithAudience(s.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != wantType {
		return nil, fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	return token, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}

var expiryPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseExpiry parses compact duration strings of the form
// `<integer><unit>` with unit s, m, h or d. The format matches the
// token TTL values that also drive cookie expiry, so days are
// supported unlike time.ParseDuration.
func ParseExpiry(s string) (time.Duration, error) {
	matches := expiryPattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf(
			"invalid expiry format %q: %w",
			s,
			core.ErrInvalidInput,
		)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid expiry value %q: %w", s, err)
	}

	switch matches[2] {
	case "s":
		return time.Duration(value) * time.Second, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf(
			"invalid expiry unit %q: %w",
			s,
			core.ErrInvalidInput,
		)
	}
}

// CookieExpiry is the absolute expiry timestamp for a cookie carrying
// a token minted now with the given TTL string.
func CookieExpiry(expiresIn string) (time.Time, error) {
	d, err := ParseExpiry(expiresIn)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().Add(d), nil
}
