package services

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestProfileFromIDToken(t *testing.T) {
	token := signedTestToken(t, jwt.MapClaims{
		"sub":     "118234567890",
		"name":    "Ada Lovelace",
		"email":   "ada@example.com",
		"picture": "https://example.com/ada.png",
	})

	profile, err := ProfileFromIDToken(token)
	require.NoError(t, err)

	assert.Equal(t, "118234567890", profile.ID)
	assert.Equal(t, "Ada Lovelace", profile.Name)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, "https://example.com/ada.png", profile.Picture)
}

func TestProfileFromIDTokenMissingSubject(t *testing.T) {
	token := signedTestToken(t, jwt.MapClaims{"name": "No Subject"})

	_, err := ProfileFromIDToken(token)
	assert.Error(t, err)
}

func TestProfileFromIDTokenMalformed(t *testing.T) {
	_, err := ProfileFromIDToken("not-a-jwt")
	assert.Error(t, err)

	_, err = ProfileFromIDToken("")
	assert.Error(t, err)
}
