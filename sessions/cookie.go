package sessions

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-oauth-client/internal/errors"
	"golang.org/x/crypto/hkdf"
)

// CookieName is the name of the cookie carrying the signed session ID.
const CookieName = "oauth_session"

const cookieKeyInfo = "oauth-client session cookie v1"

type cookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// CookieSigner signs and verifies session cookie values. The value is an HS256
// JWT carrying the session ID, so a forged or tampered cookie never reaches the repo.
type CookieSigner struct {
	key []byte
}

// NewCookieSigner derives the signing key from secret. An empty secret gets a
// random one, which means cookies do not survive a restart.
func NewCookieSigner(secret string) (*CookieSigner, error) {
	ikm := []byte(secret)
	if secret == "" {
		ikm = make([]byte, 32)
		if _, err := rand.Read(ikm); err != nil {
			return nil, fmt.Errorf("[sessions NewCookieSigner] random secret: %w", err)
		}
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, []byte(cookieKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("[sessions NewCookieSigner] derive key: %w", err)
	}
	return &CookieSigner{key: key}, nil
}

// Sign returns the cookie value for sessionID.
func (c *CookieSigner) Sign(sessionID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := cookieClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", errors.Wrapf(err, "[sessions CookieSigner.Sign]")
	}
	return signed, nil
}

// Verify checks the signature and expiry of value and returns the session ID.
func (c *CookieSigner) Verify(value string) (string, error) {
	var claims cookieClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidCookie, err)
	}
	if claims.SessionID == "" {
		return "", errors.ErrInvalidCookie
	}
	return claims.SessionID, nil
}
