package domain

import "time"

// Group is a reusable, ownable subtree. A nil OwnerKey marks a globally
// provided group. Groups keep their authoring shape on clone; only copies
// pasted into documents pass through the sanitizer.
type Group struct {
	ID             string    `json:"id"`
	OwnerKey       *string   `json:"ownerKey,omitempty"`
	Name           string    `json:"name"`
	Tree           any       `json:"tree"`
	Public         bool      `json:"public"`
	AutoInclude    bool      `json:"autoInclude"`
	Description    string    `json:"description,omitempty"`
	Version        int       `json:"version"`
	SourceGroupID  *string   `json:"sourceGroupId,omitempty"`
	SourceOwnerKey *string   `json:"sourceOwnerKey,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CloneGroup builds the private copy produced by accepting a public group.
// The copy always starts its own version series at 1 in the new owner's
// namespace, regardless of how far the source has advanced, and carries a
// back-reference to the source and its original owner.
func CloneGroup(source Group, userKey, name string) Group {
	return Group{
		OwnerKey:       &userKey,
		Name:           name,
		Tree:           source.Tree,
		Public:         false,
		AutoInclude:    source.AutoInclude,
		Description:    source.Description,
		Version:        1,
		SourceGroupID:  &source.ID,
		SourceOwnerKey: source.OwnerKey,
	}
}

type SubscriptionStatus string

const (
	SubscriptionPending  SubscriptionStatus = "pending"
	SubscriptionAccepted SubscriptionStatus = "accepted"
	SubscriptionDeclined SubscriptionStatus = "declined"
)

// GroupSubscription tracks one user's relationship to one public group.
type GroupSubscription struct {
	UserKey       string             `json:"userKey"`
	GroupID       string             `json:"groupId"`
	Status        SubscriptionStatus `json:"status"`
	ClonedGroupID *string            `json:"clonedGroupId,omitempty"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}
