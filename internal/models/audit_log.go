package models

import (
	"time"
)

type AuditLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Action    string    `gorm:"size:50;not null" json:"action"` // e.g. "CREATE_LINK", "DELETE_CAMPAIGN"
	EntityID  string    `gorm:"size:50" json:"entityId"`        // ID or short code of the affected entity
	Details   string    `gorm:"type:text" json:"details"`       // JSON description
	IPAddress string    `gorm:"size:45" json:"ipAddress"`
	Timestamp time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"timestamp"`
}
