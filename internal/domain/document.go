package domain

import "time"

type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "draft"
	DocumentStatusPublished DocumentStatus = "published"
)

// Document is one slug-addressed page of a hub. Tree is the working draft;
// PublishedTree is the snapshot frozen at the last publish and is the only
// payload the public read path ever serves.
type Document struct {
	OwnerKey      string         `json:"ownerKey"`
	Slug          string         `json:"slug"`
	Status        DocumentStatus `json:"status"`
	Tree          any            `json:"tree"`
	PublishedTree any            `json:"publishedTree,omitempty"`
	Digest        string         `json:"digest,omitempty"`
	PublishedAt   *time.Time     `json:"publishedAt,omitempty"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// UpsertOutcome distinguishes a first save under a natural key from a
// mutation of an existing record.
type UpsertOutcome string

const (
	UpsertCreated UpsertOutcome = "created"
	UpsertUpdated UpsertOutcome = "updated"
)
