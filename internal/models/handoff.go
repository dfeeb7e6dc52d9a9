package models

import (
	"time"

	"gorm.io/datatypes"
)

// HandoffEntry is the postgres row backing one serialized handoff record.
type HandoffEntry struct {
	Key       string         `json:"key" gorm:"primaryKey;size:255"`
	Payload   datatypes.JSON `json:"payload" gorm:"type:jsonb;not null"`
	ExpiresAt time.Time      `json:"expires_at" gorm:"index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (HandoffEntry) TableName() string {
	return "handoff_records"
}
