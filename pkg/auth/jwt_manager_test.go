package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateVerify(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate(12, "Ana", "ana@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(12), claims.UserID)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "ana@x.com", claims.Email)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	m := NewJWTManager("secret-a", time.Hour)
	other := NewJWTManager("secret-b", time.Hour)

	token, err := m.Generate(1, "Ana", "ana@x.com")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.Generate(1, "Ana", "ana@x.com")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestJWTManager_Expiry(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate(1, "Ana", "ana@x.com")
	require.NoError(t, err)

	exp, err := m.Expiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)
}

func TestExtractTokenFromHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer abc123")

	token, err := ExtractTokenFromHeader(r)
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	r.Header.Set("Authorization", "Basic abc123")
	_, err = ExtractTokenFromHeader(r)
	assert.Error(t, err)

	r.Header.Del("Authorization")
	_, err = ExtractTokenFromHeader(r)
	assert.Error(t, err)
}
