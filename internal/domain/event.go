package domain

import "time"

// Event is fanned out over pub/sub whenever a document is saved or
// published, so live-preview clients can refresh.
type Event struct {
	Type      string    `json:"type"` // save, publish
	OwnerKey  string    `json:"ownerKey"`
	Slug      string    `json:"slug"`
	Timestamp time.Time `json:"timestamp"`
}
