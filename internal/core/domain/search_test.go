package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchOptions_EffectiveLimit(t *testing.T) {
	assert.Equal(t, DefaultSearchLimit, SearchOptions{}.EffectiveLimit())
	assert.Equal(t, DefaultSearchLimit, SearchOptions{Limit: -3}.EffectiveLimit())
	assert.Equal(t, 10, SearchOptions{Limit: 10}.EffectiveLimit())
}
