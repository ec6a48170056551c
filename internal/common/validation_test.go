package common

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorCollectsErrors(t *testing.T) {
	v := NewValidator().
		Field("group_id", "", Required).
		Field("action", "extract", Required).
		Field("version_id", "not-a-uuid", UUID)

	require.True(t, v.HasErrors())
	require.Len(t, v.Errors(), 2)
	assert.Contains(t, v.ErrorMessage(), "group_id")
	assert.Contains(t, v.ErrorMessage(), "must be a valid UUID")
}

func TestValidatorNoErrors(t *testing.T) {
	v := NewValidator().
		Field("group_id", "grp-1", Required).
		Field("version_id", uuid.NewString(), UUID)

	assert.False(t, v.HasErrors())
	assert.NoError(t, v.Error())
	assert.Empty(t, v.ErrorMessage())
}

func TestRequiredTrimsWhitespace(t *testing.T) {
	assert.NotNil(t, Required("name", "   "))
	assert.NotNil(t, Required("name", nil))
	assert.Nil(t, Required("name", "Acme"))
}

func TestMaxLengthCountsRunes(t *testing.T) {
	assert.Nil(t, MaxLength("notes", "abcde", 5))
	assert.NotNil(t, MaxLength("notes", "abcdef", 5))
	// Multibyte runes count once each.
	assert.Nil(t, MaxLength("notes", "héllo", 5))
	// Non-string values pass through.
	assert.Nil(t, MaxLength("notes", 42, 5))
}
