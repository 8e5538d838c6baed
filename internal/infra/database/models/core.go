package models

import (
	"time"
)

// Document stores one page. Tree and PublishedTree are JSON text; copying
// the column value is already a full serialize round trip.
type Document struct {
	ID            int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerKey      string     `json:"ownerKey" gorm:"type:text;not null;uniqueIndex:document_owner_slug"`
	Slug          string     `json:"slug" gorm:"type:text;not null;uniqueIndex:document_owner_slug"`
	Status        string     `json:"status" gorm:"type:text;not null;default:draft"`
	Tree          string     `json:"tree" gorm:"type:text;not null"`
	PublishedTree *string    `json:"publishedTree" gorm:"type:text"`
	Digest        string     `json:"digest" gorm:"type:text;not null;default:''"`
	PublishedAt   *time.Time `json:"publishedAt" gorm:"type:timestamp with time zone"`
	CDate         time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	MDate         time.Time  `json:"mdate" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type App struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:text"`
	OwnerKey           string     `json:"ownerKey" gorm:"type:text;not null;index;uniqueIndex:app_owner_slug"`
	Name               string     `json:"name" gorm:"type:text;not null"`
	Slug               string     `json:"slug" gorm:"type:text;not null;uniqueIndex:app_owner_slug"`
	IsTemplate         bool       `json:"isTemplate" gorm:"not null;default:false;index"`
	Visibility         string     `json:"visibility" gorm:"type:text;not null;default:private"`
	TemplateSource     *string    `json:"templateSource" gorm:"type:text"`
	TemplateVersion    int        `json:"templateVersion" gorm:"not null;default:0"`
	LastTemplateSyncAt *time.Time `json:"lastTemplateSyncAt" gorm:"type:timestamp with time zone"`
	CDate              time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	MDate              time.Time  `json:"mdate" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}
