package utils

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
    hash, err := HashPassword("correct horse", 4) // bcrypt.MinCost keeps the test fast
    require.NoError(t, err)
    assert.NotEqual(t, "correct horse", hash)

    assert.True(t, VerifyPassword(hash, "correct horse"))
    assert.False(t, VerifyPassword(hash, "battery staple"))
}

func TestHashPasswordClampsBadCost(t *testing.T) {
    // 0 and 99 are outside bcrypt's range; both must still produce a
    // verifiable hash.
    for _, cost := range []int{0, 99} {
        hash, err := HashPassword("pw", cost)
        require.NoError(t, err)
        assert.True(t, VerifyPassword(hash, "pw"))
    }
}
