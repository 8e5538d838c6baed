package domain

import "time"

type AppVisibility string

const (
	AppVisibilityPublic  AppVisibility = "public"
	AppVisibilityPrivate AppVisibility = "private"
)

// App is a named container of documents sharing a slug prefix. A public
// template app's full page set can be synced into other apps carrying it as
// TemplateSource. TemplateVersion increments whenever one of the template's
// pages is republished.
type App struct {
	ID                 string        `json:"id"`
	OwnerKey           string        `json:"ownerKey"`
	Name               string        `json:"name"`
	Slug               string        `json:"slug"`
	IsTemplate         bool          `json:"isTemplate"`
	Visibility         AppVisibility `json:"visibility"`
	TemplateSource     *string       `json:"templateSource,omitempty"`
	TemplateVersion    int           `json:"templateVersion"`
	LastTemplateSyncAt *time.Time    `json:"lastTemplateSyncAt,omitempty"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// SyncReport is what a template sync run tells the caller: how each mapped
// page was handled and which template version the destination now carries.
type SyncReport struct {
	Created        int `json:"created"`
	Overwritten    int `json:"overwritten"`
	Skipped        int `json:"skipped"`
	AppliedVersion int `json:"appliedVersion"`
}
