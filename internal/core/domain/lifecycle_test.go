package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleMode_IsValid(t *testing.T) {
	tests := []struct {
		mode     LifecycleMode
		expected bool
	}{
		{LifecycleReplace, true},
		{LifecycleAppend, true},
		{LifecycleReadOnly, true},
		{LifecycleMode(""), false},
		{LifecycleMode("readonly"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.mode.IsValid())
		})
	}
}

func TestLifecycleMode_Writable(t *testing.T) {
	assert.True(t, LifecycleReplace.Writable())
	assert.True(t, LifecycleAppend.Writable())
	assert.False(t, LifecycleReadOnly.Writable())
	assert.False(t, LifecycleMode("bogus").Writable())

	assert.False(t, LifecycleReadOnly.CreatesCollection())
}

func TestLifecycleMode_Description(t *testing.T) {
	for _, m := range AllLifecycleModes() {
		assert.NotEqual(t, unknownDescription, m.Description())
		assert.Equal(t, string(m), m.String())
	}
	assert.Equal(t, unknownDescription, LifecycleMode("x").Description())
}

func TestParseLifecycleMode(t *testing.T) {
	m, err := ParseLifecycleMode("append")
	require.NoError(t, err)
	assert.Equal(t, LifecycleAppend, m)

	_, err = ParseLifecycleMode("upsert")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
