package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	tok, err := SignJWT("s3cret", "u1", "staff", "active", time.Hour)
	require.NoError(t, err)

	c, err := ParseJWT("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "staff", c.Role)
	assert.Equal(t, "active", c.Status)
}

func TestJWTRejectsWrongSecretAndExpiry(t *testing.T) {
	tok, err := SignJWT("s3cret", "u1", "manager", "active", time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT("other", tok)
	assert.Error(t, err)

	old, err := SignJWT("s3cret", "u1", "manager", "active", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT("s3cret", old)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	BcryptCost = 4
	h, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "hunter22"))
	assert.False(t, CheckPassword(h, "hunter23"))
}
