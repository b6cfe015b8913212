package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-123"

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)

	raw, err := tokens.Issue(42, "leo")
	require.NoError(t, err)

	id, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id.UserID)
	assert.Equal(t, "leo", id.Username)
	assert.NotEmpty(t, id.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), id.ExpiresAt, 5*time.Second)
}

func TestTokens_ParseRejects(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		raw, err := NewTokens("another-secret-that-is-long-enough", time.Hour).Issue(1, "a")
		require.NoError(t, err)
		_, err = tokens.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewTokens(testSecret, time.Minute)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		raw, err := past.Issue(1, "a")
		require.NoError(t, err)
		_, err = tokens.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "1",
			"iss": Issuer,
			"aud": "someone-else",
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = tokens.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty secret cannot issue", func(t *testing.T) {
		_, err := NewTokens("", time.Hour).Issue(1, "a")
		assert.Error(t, err)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("SecurePass12!@")
	require.NoError(t, err)
	assert.NotEqual(t, "SecurePass12!@", hash)
	assert.True(t, CheckPassword(hash, "SecurePass12!@"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "SecurePass12!@"))
}

func TestRevocations(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := NewRevocations(client)
	ctx := context.Background()

	assert.False(t, r.IsRevoked(ctx, "jti-1"))
	require.NoError(t, r.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	assert.True(t, r.IsRevoked(ctx, "jti-1"))

	mr.FastForward(2 * time.Hour)
	assert.False(t, r.IsRevoked(ctx, "jti-1"))

	var disabled *Revocations
	assert.NoError(t, disabled.Revoke(ctx, "x", time.Now().Add(time.Hour)))
	assert.False(t, disabled.IsRevoked(ctx, "x"))
}
