package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.NoError(t, CheckPassword("s3cret!", hash))
	assert.Error(t, CheckPassword("wrong", hash))
}

func TestNewOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{5}-\d{5}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, NewOrderNumber())
	}
}
