package services

import "github.com/google/uuid"

// AssignIDs returns n random UUIDv4 strings, one per document in a batch.
// IDs are never derived from content, so ingesting the same content twice
// produces distinct entries. n <= 0 yields an empty slice.
// uuid.New panics if the system entropy source fails.
func AssignIDs(n int) []string {
	if n <= 0 {
		return []string{}
	}
	ids := make([]string, n)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	return ids
}
