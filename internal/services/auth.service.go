package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lunchlog/config"
	"lunchlog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// AuthService verifies HMAC signed bearer tokens issued for API users.
type AuthService struct {
	secret []byte
	log    logger.Logger
}

func NewAuthService(config config.Config) *AuthService {
	return &AuthService{
		secret: []byte(config.JWTSecret),
		log:    logger.New("AuthService"),
	}
}

func (s *AuthService) ValidateToken(ctx context.Context, token string) (*types.TokenInfo, error) {
	log := s.log.Function("ValidateToken").TraceFromContext(ctx)

	if len(s.secret) == 0 {
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(
		token,
		&tokenClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		log.Debug("token verification failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &types.TokenInfo{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}

// IssueToken signs a token for subject. Used by operator tooling and tests.
func (s *AuthService) IssueToken(info types.TokenInfo, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrInvalidToken
	}

	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   info.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: info.Email,
		Name:  info.Name,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
