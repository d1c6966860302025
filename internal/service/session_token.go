package service

import (
	"errors"
	"fmt"

	"github.com/dom/bandmates/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const sessionTokenIssuer = "bandmates"

// SessionTokenCodec signs the opaque session id into the cookie value. The
// session state itself stays server-side; the signature only lets forged
// cookies be rejected without a store round trip.
type SessionTokenCodec struct {
	secret []byte
}

func NewSessionTokenCodec(secret string) *SessionTokenCodec {
	return &SessionTokenCodec{secret: []byte(secret)}
}

func (c *SessionTokenCodec) Encode(session *domain.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        session.ID,
		Issuer:    sessionTokenIssuer,
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies the cookie value and returns the session id it carries.
func (c *SessionTokenCodec) Decode(value string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(value, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	},
		jwt.WithIssuer(sessionTokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("decode session token: %w", err)
	}
	if !token.Valid || claims.ID == "" {
		return "", errors.New("invalid session token")
	}
	return claims.ID, nil
}
