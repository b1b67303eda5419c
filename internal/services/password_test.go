package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasherRoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	for i, password := range []string{"secret1", "", "   spaced   ", "pässwörd"} {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			hash, err := h.Hash(password)
			require.NoError(t, err)
			assert.NotEqual(t, password, hash)
			assert.True(t, h.Verify(password, hash))
			assert.False(t, h.Verify(password+"x", hash))
		})
	}
}

func TestPasswordHasherSaltsEveryHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	first, err := h.Hash("secret1")
	require.NoError(t, err)
	second, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("secret1", first))
	assert.True(t, h.Verify("secret1", second))
}

func TestPasswordHasherRejectsMissingOrMalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	assert.False(t, h.Verify("secret1", ""))
	assert.False(t, h.Verify("secret1", "$2a$10$short"))
	assert.False(t, h.Verify("secret1", "x123456789012345678901234567890123456789012345678901234567890"))
}

func TestPasswordHasherByteLimit(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash(strings.Repeat("a", 72))
	require.NoError(t, err)
	assert.True(t, h.Verify(strings.Repeat("a", 72), hash))

	_, err = h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	// 37 two-byte runes are 74 bytes.
	_, err = h.Hash(strings.Repeat("é", 37))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestPasswordHasherInvalidCostFallsBack(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).cost)
}

func TestRandomPasswordGenerator(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		pw, err := RandomPasswordGenerator{}.Generate()
		require.NoError(t, err)
		require.Len(t, pw, tempPasswordLength)
		for _, r := range pw {
			assert.Contains(t, tempPasswordChars, string(r))
		}
		_, dup := seen[pw]
		require.False(t, dup, "duplicate temporary password %s", pw)
		seen[pw] = struct{}{}
	}
}
