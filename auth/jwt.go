package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultIssuer = "tradejournal"

// Claims carry the user id in the subject and a unique token id used for
// revocation.
type Claims struct {
	Email string `json:"email,omitempty"`

	jwt.RegisteredClaims
}

func (c Claims) User() User {
	return User{ID: c.Subject, Email: c.Email}
}

// JWT signs and verifies HS256 bearer tokens.
type JWT struct {
	Secret   []byte
	TokenTTL time.Duration
	Issuer   string
}

func (j JWT) issuer() string {
	if j.Issuer == "" {
		return defaultIssuer
	}
	return j.Issuer
}

// Sign issues a token for u valid for TokenTTL.
func (j JWT) Sign(u User) (token string, claims Claims, err error) {
	if u.ID == "" {
		return "", Claims{}, fmt.Errorf("sign token: %w", ErrNoSession)
	}

	now := time.Now().UTC()
	claims = Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			Issuer:    j.issuer(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Second)),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(j.Secret)
	if err != nil {
		return "", Claims{}, err
	}
	return token, claims, nil
}

// Verify checks the signature, expiry and issuer of token.
func (j JWT) Verify(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return j.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer()),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || c.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return *c, nil
}
