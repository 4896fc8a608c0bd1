package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuerName = "mindboard"

var ErrInvalidToken = errors.New("invalid token")

// Config holds JWT generation configuration.
type Config struct {
	Secret string
	TTL    time.Duration
}

type claims struct {
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens whose subject is the user's userNum.
type Issuer struct {
	cfg Config
	now func() time.Time
}

func NewIssuer(cfg Config) *Issuer {
	return &Issuer{cfg: cfg, now: time.Now}
}

// Issue generates a signed token for userNum.
func (i *Issuer) Issue(userNum string) (string, error) {
	if userNum == "" {
		return "", fmt.Errorf("issue token: empty subject")
	}
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			Subject:   userNum,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TTL)),
		},
	})
	return token.SignedString([]byte(i.cfg.Secret))
}

// Parse verifies tokenStr and returns its subject.
func (i *Issuer) Parse(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (any, error) {
		return []byte(i.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || c.Subject == "" {
		return "", ErrInvalidToken
	}
	return c.Subject, nil
}
