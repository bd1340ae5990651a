package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shopadmin/backoffice/internal/api/metrics"
	"github.com/shopadmin/backoffice/internal/core/domain"
)

const DefaultTokenTTL = time.Hour

// tokenClaims is the JWT payload shape.
type tokenClaims struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	RoleID int    `json:"roleId"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source; used by tests to pin issuance and expiry.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	t.now = now
	return t
}

// Issue signs a token for the identity in claims. IssuedAt, ExpiresAt and
// TokenID are always set by the issuer.
func (t *TokenIssuer) Issue(claims domain.SessionClaims) (string, domain.SessionClaims, error) {
	now := t.now().UTC().Truncate(time.Second)
	claims.TokenID = uuid.NewString()
	claims.IssuedAt = now
	claims.ExpiresAt = now.Add(t.ttl)

	tc := tokenClaims{
		Email:  claims.Email,
		UserID: claims.UserID,
		RoleID: claims.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        claims.TokenID,
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(t.secret)
	if err != nil {
		return "", domain.SessionClaims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify checks the signature first and expiry second, returning
// domain.ErrTokenInvalid or domain.ErrTokenExpired respectively.
func (t *TokenIssuer) Verify(token string) (*domain.SessionClaims, error) {
	var tc tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &tc, func(tkn *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
			return nil, fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
		}
		metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if !parsed.Valid || strings.TrimSpace(tc.UserID) == "" {
		metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: missing identity", domain.ErrTokenInvalid)
	}

	metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
	claims := &domain.SessionClaims{
		TokenID: tc.ID,
		Email:   tc.Email,
		UserID:  tc.UserID,
		RoleID:  tc.RoleID,
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.Time.UTC()
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time.UTC()
	}
	return claims, nil
}
