package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	digest, err := HashPassword("pass1234")
	require.NoError(t, err)
	assert.NotEqual(t, "pass1234", digest)

	assert.True(t, CheckPassword("pass1234", digest))
	assert.False(t, CheckPassword("wrongpass", digest))
}

func TestHashPassword_DigestsAreSalted(t *testing.T) {
	first, err := HashPassword("pass1234")
	require.NoError(t, err)
	second, err := HashPassword("pass1234")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestCheckPassword_MalformedDigestFailsClosed(t *testing.T) {
	assert.False(t, CheckPassword("pass1234", ""))
	assert.False(t, CheckPassword("pass1234", "not-a-bcrypt-digest"))
}
