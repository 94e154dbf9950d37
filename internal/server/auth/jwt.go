// Package auth implements the credential primitives of the server: signed
// token issuance/verification and password hashing.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind distinguishes access tokens from refresh tokens. The kind is part
// of the signed claims, so a refresh token can never pass as an access token.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Claims carries the registered claims plus the token kind. Subject holds the
// user ID, ID (jti) identifies the individual token.
type Claims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"kind"`
}

// TokenManager is the single issuance and verification path for both token
// kinds. It is constructed once at startup with the process-wide secret.
type TokenManager struct {
	secret          []byte
	accessValidity  time.Duration
	refreshValidity time.Duration
}

func NewTokenManager(secret []byte, accessValidity, refreshValidity time.Duration) *TokenManager {
	return &TokenManager{
		secret:          secret,
		accessValidity:  accessValidity,
		refreshValidity: refreshValidity,
	}
}

// Issue mints a signed token of the given kind bound to userID and returns the
// compact token string together with its jti.
func (m *TokenManager) Issue(kind TokenKind, userID string) (token string, jti string, err error) {
	validity := m.accessValidity
	if kind == TokenKindRefresh {
		validity = m.refreshValidity
	}

	jti = uuid.NewString()
	now := time.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Kind: kind,
	})

	token, err = t.SignedString(m.secret)
	if err != nil {
		return "", "", err
	}

	return token, jti, nil
}

// Verify checks the signature and validity window of tokenString and confirms
// it is of the expected kind. On success it returns the parsed claims.
// Expired tokens yield common.ErrTokenExpired, everything else collapses to
// common.ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Kind != kind || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// RefreshValidity exposes the refresh lifetime so the caller can persist the
// matching server-side record.
func (m *TokenManager) RefreshValidity() time.Duration {
	return m.refreshValidity
}
