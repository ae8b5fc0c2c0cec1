package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStubPlaceID(t *testing.T) {
	id := NewStubPlaceID()

	assert.True(t, IsStubPlaceID(id))
	assert.Len(t, id, len("stub_")+16)
	assert.Regexp(t, `^stub_[0-9a-f]{16}$`, id)
	assert.NotEqual(t, id, NewStubPlaceID())
	assert.False(t, IsStubPlaceID("ChIJ123"))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "Joe's Pizza", NormalizeText("  Joe's \t Pizza\x00 "))
	assert.Equal(t, "", NormalizeText("   "))
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("15/03/2024")
	assert.Error(t, err)
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), DateOnly(in))
}
