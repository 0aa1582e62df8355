package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAssignIDs(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"zero", 0, 0},
		{"negative", -3, 0},
		{"one", 1, 1},
		{"many", 500, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := AssignIDs(tt.n)

			assert.Len(t, ids, tt.want)
			seen := make(map[string]bool, len(ids))
			for _, id := range ids {
				parsed, err := uuid.Parse(id)
				assert.NoError(t, err)
				assert.Equal(t, uuid.Version(4), parsed.Version())
				assert.False(t, seen[id], "duplicate id %s", id)
				seen[id] = true
			}
		})
	}
}

func TestAssignIDs_DistinctAcrossCalls(t *testing.T) {
	a := AssignIDs(3)
	b := AssignIDs(3)

	for _, id := range a {
		assert.NotContains(t, b, id)
	}
}
