package service

import (
	"strings"
	"testing"
	"time"

	"github.com/dom/bandmates/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenCodec(t *testing.T) {
	codec := NewSessionTokenCodec("test-secret")
	now := time.Now()
	session := &domain.Session{ID: "b3f2c9d0-session", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	value, err := codec.Encode(session)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(value, "."))

	id, err := codec.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, session.ID, id)

	t.Run("other secret", func(t *testing.T) {
		_, err := NewSessionTokenCodec("other-secret").Decode(value)
		assert.Error(t, err)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := codec.Decode(value + "x")
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		old := &domain.Session{ID: "old", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
		expired, err := codec.Encode(old)
		require.NoError(t, err)
		_, err = codec.Decode(expired)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ID:        "forged",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		})
		forged, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = codec.Decode(forged)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := codec.Decode("not-a-token")
		assert.Error(t, err)
	})
}
