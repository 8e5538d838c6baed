package models

import (
	"time"
)

type Variable struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserKey     string    `json:"userKey" gorm:"type:text;not null;uniqueIndex:variable_user_key"`
	Key         string    `json:"key" gorm:"type:text;not null;uniqueIndex:variable_user_key"`
	Value       string    `json:"value" gorm:"type:text;not null;default:''"`
	Label       string    `json:"label" gorm:"type:text;not null;default:''"`
	Category    string    `json:"category" gorm:"type:text;not null;default:''"`
	Description *string   `json:"description" gorm:"type:text"`
	MDate       time.Time `json:"mdate" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Redirect struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"`
	OwnerKey  string    `json:"ownerKey" gorm:"type:text;not null;index"`
	Code      string    `json:"code" gorm:"type:text;not null;uniqueIndex"`
	TargetURL string    `json:"targetUrl" gorm:"type:text;not null"`
	CDate     time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
