package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskr/internal/platform/logger"
)

// MinSecretLength is the minimum accepted signing secret length.
const MinSecretLength = 32

// TokenService issues and verifies signed session tokens.
type TokenService interface {
	// Issue returns a signed token embedding ownerID.
	Issue(ctx context.Context, ownerID uuid.UUID) (string, error)

	// Verify checks the token signature and returns the embedded owner id.
	// Returns ErrInvalidToken on tampered or malformed input.
	Verify(ctx context.Context, token string) (uuid.UUID, error)
}

// hmacTokenService implements TokenService with HMAC-SHA256 signed JWTs.
// Tokens carry no expiry; their lifetime is the owner's session list.
type hmacTokenService struct {
	signingKey []byte
	timeFunc   func() time.Time // Injectable for testing
}

// sessionClaims is the JWT payload of a session token.
type sessionClaims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

var _ TokenService = (*hmacTokenService)(nil)

// NewTokenService creates a TokenService signing with secret. It fails when
// the secret is absent or shorter than MinSecretLength.
func NewTokenService(secret string) (TokenService, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is not configured")
	}
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("token signing secret must be at least %d characters", MinSecretLength)
	}
	return &hmacTokenService{
		signingKey: []byte(secret),
		timeFunc:   time.Now,
	}, nil
}

// Issue implements TokenService.
func (s *hmacTokenService) Issue(ctx context.Context, ownerID uuid.UUID) (string, error) {
	log := logger.FromContext(ctx)

	claims := sessionClaims{
		UserID: ownerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  ownerID.String(),
			IssuedAt: jwt.NewNumericDate(s.timeFunc()),
			ID:       uuid.New().String(), // Unique per login
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign session token",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify implements TokenService.
func (s *hmacTokenService) Verify(ctx context.Context, token string) (uuid.UUID, error) {
	log := logger.FromContext(ctx)

	parsed, err := jwt.ParseWithClaims(
		token,
		&sessionClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.timeFunc),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			log.Debug("token verification failed: malformed token")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			log.Debug("token verification failed: invalid signature")
		default:
			log.Debug("token verification failed",
				slog.String("error_type", fmt.Sprintf("%T", err)))
		}
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.UserID == uuid.Nil || claims.Subject != claims.UserID.String() {
		log.Debug("token verification failed: invalid claims")
		return uuid.Nil, ErrInvalidToken
	}
	return claims.UserID, nil
}
