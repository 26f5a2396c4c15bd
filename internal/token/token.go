package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coachly/backend-auth/internal/domain"
)

// Claims is the decoded identity assertion carried by a session token.
// Validity is entirely determined by signature and expiry; nothing is
// persisted server-side.
type Claims struct {
	AccountID string
	Role      domain.Role
	IssuedAt  time.Time
}

// Config holds signing material and expiry policy for session tokens.
type Config struct {
	Secret      string
	Issuer      string
	DefaultTTL  time.Duration // plain login
	RememberTTL time.Duration // "remember me" login
}

// Issuer signs and verifies session tokens (HS256).
type Issuer struct {
	secret      []byte
	issuer      string
	defaultTTL  time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

// NewIssuer creates an Issuer. Zero TTLs fall back to 24h / 30d.
func NewIssuer(cfg Config) *Issuer {
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = 24 * time.Hour
	}
	if cfg.RememberTTL == 0 {
		cfg.RememberTTL = 30 * 24 * time.Hour
	}
	return &Issuer{
		secret:      []byte(cfg.Secret),
		issuer:      cfg.Issuer,
		defaultTTL:  cfg.DefaultTTL,
		rememberTTL: cfg.RememberTTL,
		now:         time.Now,
	}
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a token asserting the account's identity and role. rememberMe
// selects the long-lived expiry.
func (i *Issuer) Issue(account *domain.Account, rememberMe bool) (string, error) {
	ttl := i.defaultTTL
	if rememberMe {
		ttl = i.rememberTTL
	}
	now := i.now()

	claims := sessionClaims{
		Role: string(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// TTL reports the lifetime a token issued with the given rememberMe flag
// gets. Callers surfacing expiry alongside a token read it from here so
// the reported lifetime always matches the configured one.
func (i *Issuer) TTL(rememberMe bool) time.Duration {
	if rememberMe {
		return i.rememberTTL
	}
	return i.defaultTTL
}

// Verify checks signature and expiry and returns the embedded claims.
// An expired but well-signed token fails with domain.ErrTokenExpired;
// everything else fails with domain.ErrTokenInvalid.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return nil, domain.ErrTokenInvalid
	}

	return &Claims{
		AccountID: claims.Subject,
		Role:      role,
		IssuedAt:  claims.IssuedAt.Time,
	}, nil
}
