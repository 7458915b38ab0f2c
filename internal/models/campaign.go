package models

import (
	"time"
)

type Campaign struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`

	Links []Link `gorm:"foreignKey:CampaignID" json:"links,omitempty"`
}
