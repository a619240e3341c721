package planner

import "github.com/google/uuid"

// NewID returns a process-unique id. UUIDv7 puts a millisecond timestamp in
// the high bits and random data in the rest, so ids sort by creation time.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
