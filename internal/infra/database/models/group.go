package models

import (
	"time"
)

type Group struct {
	ID             string    `json:"id" gorm:"primaryKey;type:text"`
	OwnerKey       *string   `json:"ownerKey" gorm:"type:text;index;uniqueIndex:group_owner_name"`
	Name           string    `json:"name" gorm:"type:text;not null;uniqueIndex:group_owner_name"`
	Tree           string    `json:"tree" gorm:"type:text;not null"`
	Public         bool      `json:"public" gorm:"not null;default:false;index"`
	AutoInclude    bool      `json:"autoInclude" gorm:"not null;default:false"`
	Description    string    `json:"description" gorm:"type:text;not null;default:''"`
	Version        int       `json:"version" gorm:"not null;default:1"`
	SourceGroupID  *string   `json:"sourceGroupId" gorm:"type:text"`
	SourceOwnerKey *string   `json:"sourceOwnerKey" gorm:"type:text"`
	CDate          time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	MDate          time.Time `json:"mdate" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type GroupSubscription struct {
	UserKey       string    `json:"userKey" gorm:"type:text;primaryKey"`
	GroupID       string    `json:"groupId" gorm:"type:text;primaryKey"`
	Group         Group     `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Status        string    `json:"status" gorm:"type:text;not null;default:pending"`
	ClonedGroupID *string   `json:"clonedGroupId" gorm:"type:text"`
	MDate         time.Time `json:"mdate" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}
