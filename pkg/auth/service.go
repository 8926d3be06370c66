package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/theapemachine/contract-search/pkg/errors"
	"golang.org/x/time/rate"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limit exceeded")
)

/*
Service checks HS256 bearer tokens against a shared secret and meters
requests through a shared token bucket. Tokens are stateless; there is no
revocation list.
*/
type Service struct {
	signingKey  []byte
	issuer      string
	ttl         time.Duration
	rateLimiter *rate.Limiter
}

// Token is a freshly issued bearer token.
type Token struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ServiceOption func(*Service)

/*
WithRateLimit allows requests per interval across all callers, with a
burst of the same size. Non-positive values leave the service unlimited.
*/
func WithRateLimit(requests int64, interval time.Duration) ServiceOption {
	return func(s *Service) {
		if requests > 0 && interval > 0 {
			s.rateLimiter = newLimiter(requests, interval)
		}
	}
}

func newLimiter(requests int64, interval time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(interval/time.Duration(requests)), int(requests))
}

func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewService(secret string, options ...ServiceOption) *Service {
	s := &Service{
		signingKey: []byte(secret),
		issuer:     "contract-search",
		ttl:        time.Hour,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

func (s *Service) getSigningKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}

	return s.signingKey, nil
}

/*
Authenticate validates an Authorization header value. The "Bearer "
prefix is optional. It returns the token's subject.
*/
func (s *Service) Authenticate(header string) (string, error) {
	if s.rateLimiter != nil && !s.rateLimiter.Allow() {
		return "", ErrRateLimited
	}

	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

	if raw == "" {
		return "", fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}

	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(
		raw, claims, s.getSigningKey,
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	if !token.Valid {
		return "", fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	return claims.Subject, nil
}

// IssueToken signs a token for subject that expires after the configured TTL.
func (s *Service) IssueToken(subject string) (*Token, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(s.signingKey)

	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{Token: signed, Subject: subject, ExpiresAt: expiresAt}, nil
}
