package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Bankydog/auth-service/shared/clock"
)

// minSecretLength is the minimum number of bytes required for the HMAC
// signing secret. Enforced once at construction, not per call.
const minSecretLength = 32

var (
	ErrSecretTooShort = fmt.Errorf("token secret must be at least %d bytes", minSecretLength)
	ErrInvalidTTL     = errors.New("token TTL must be positive")
	ErrInvalidToken   = errors.New("invalid token")
)

// TokenCodec signs and parses stateless bearer tokens. Tokens are standard
// HS256 JWTs carrying the subject identity, issued-at and expiry, so any
// holder of the secret can validate them without a server-side session
// store.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// NewTokenCodec creates a TokenCodec with the given symmetric secret and
// token lifetime.
func NewTokenCodec(secret string, ttl time.Duration, clk clock.Clock) (*TokenCodec, error) {
	if len(secret) < minSecretLength {
		return nil, ErrSecretTooShort
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clk,
	}, nil
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the given subject. Extra claims are embedded as
// opaque payload; the registered sub, iat and exp claims always win over
// entries with the same name.
func (c *TokenCodec) Issue(subject string, extraClaims map[string]any) (string, error) {
	now := c.clock.Now()

	claims := jwt.MapClaims{}
	for k, v := range extraClaims {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(c.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(c.secret)
}

// Validate reports whether the token is authentic, unexpired, and issued
// for the expected subject. Any parse or signature failure yields false;
// no error escapes to the caller.
func (c *TokenCodec) Validate(tokenStr, expectedSubject string) bool {
	token, err := c.parse(tokenStr, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return false
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject != expectedSubject {
		return false
	}

	// jwt treats now == exp as still valid; expiry here is exclusive.
	expiry, err := token.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}

	return c.clock.Now().Before(expiry.Time)
}

// ExtractSubject returns the subject claim without validating expiry. The
// signature is still checked so a tampered token fails.
func (c *TokenCodec) ExtractSubject(tokenStr string) (string, error) {
	token, err := c.parse(tokenStr, jwt.WithoutClaimsValidation())
	if err != nil {
		return "", ErrInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}

	return subject, nil
}

// ExtractExpiry returns the expiry claim without validating it, so the
// expiry of an already expired token is still readable.
func (c *TokenCodec) ExtractExpiry(tokenStr string) (time.Time, error) {
	token, err := c.parse(tokenStr, jwt.WithoutClaimsValidation())
	if err != nil {
		return time.Time{}, ErrInvalidToken
	}

	expiry, err := token.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, ErrInvalidToken
	}

	return expiry.Time, nil
}

func (c *TokenCodec) parse(tokenStr string, opts ...jwt.ParserOption) (*jwt.Token, error) {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(c.clock.Now),
	)

	return jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return c.secret, nil
	}, opts...)
}
