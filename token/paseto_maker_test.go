package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "12345678901234567890123456789012"

func TestPasetoMaker_RoundTrip(t *testing.T) {
	maker, err := NewPasetoMaker(testKey)
	require.NoError(t, err)

	created, err := maker.CreateToken("staff@rental.local", "staff", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, created)

	payload, err := maker.VerifyToken(created)
	require.NoError(t, err)
	assert.Equal(t, "staff@rental.local", payload.Email)
	assert.Equal(t, "staff", payload.Role)
	assert.WithinDuration(t, time.Now().Add(time.Minute), payload.ExpiredAt, 5*time.Second)
}

func TestPasetoMaker_ExpiredToken(t *testing.T) {
	maker, err := NewPasetoMaker(testKey)
	require.NoError(t, err)

	created, err := maker.CreateToken("staff@rental.local", "staff", time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	_, err = maker.VerifyToken(created)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "expired"))
}

func TestNewPasetoMaker_RejectsShortKey(t *testing.T) {
	_, err := NewPasetoMaker("too-short")
	assert.Error(t, err)
}
