package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL defines the fallback validity period for bearer tokens.
const DefaultTokenTTL = 24 * time.Hour

// minSecretBytes enforces the 256-bit floor for the HMAC signing key.
const minSecretBytes = 32

// Verification failures, classified. All three are terminal for the request's
// authentication attempt; callers degrade to an anonymous principal rather
// than failing the pipeline.
var (
	// ErrTokenMalformed marks input that could not be parsed as a token.
	ErrTokenMalformed = errors.New("token: malformed")
	// ErrTokenBadSignature marks a decodable token whose signature does not match.
	ErrTokenBadSignature = errors.New("token: bad signature")
	// ErrTokenExpired marks a well-signed token past its expiry.
	ErrTokenExpired = errors.New("token: expired")
)

// TokenConfig bundles the configuration required to build a TokenService.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
	Clock  func() time.Time
}

// TokenService issues and verifies stateless signed bearer tokens. It holds
// no mutable state and is safe for unbounded concurrent use.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService constructs a TokenService from the supplied configuration.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: secret must be provided")
	}
	if len(cfg.Secret) < minSecretBytes {
		return nil, fmt.Errorf("token: secret must be at least %d bytes", minSecretBytes)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &TokenService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    now,
	}, nil
}

// Issue signs a token whose subject is the given account id.
func (s *TokenService) Issue(accountID string) (string, error) {
	if accountID == "" {
		return "", errors.New("token: account id is required")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a bearer token, returning the subject account
// id. Failures are reported as ErrTokenMalformed, ErrTokenBadSignature, or
// ErrTokenExpired.
func (s *TokenService) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrTokenMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	var claims jwt.RegisteredClaims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", classifyTokenError(err)
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return "", ErrTokenBadSignature
	}
	if claims.Subject == "" {
		return "", ErrTokenMalformed
	}

	return claims.Subject, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenBadSignature
	default:
		// Undecodable input, wrong segment count, unexpected algorithm, etc.
		return ErrTokenMalformed
	}
}
