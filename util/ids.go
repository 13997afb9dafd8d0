package util

import "github.com/google/uuid"

// NewLookupID returns a random identifier used to correlate the log lines of one lookup.
func NewLookupID() string {
	return uuid.Must(uuid.NewRandom()).String()
}
