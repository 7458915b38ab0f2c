package models

import (
	"time"
)

// Click is an append-only record of one redirect. UserAgent, Referrer and
// IPAddress use the literal sentinel "N/A" when the request did not carry
// them, so aggregation never distinguishes absent from unknown.
type Click struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	LinkID    string    `gorm:"not null;size:36;index" json:"linkId"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index" json:"createdAt"`
	UserAgent string    `gorm:"size:512" json:"userAgent"`
	Referrer  string    `gorm:"size:512" json:"referrer"`
	IPAddress string    `gorm:"size:45" json:"ipAddress"`
	UTMSource *string   `gorm:"size:255" json:"utmSource"`
	Country   string    `gorm:"size:100;default:'N/A'" json:"country"`

	// Derived from the user agent by the recorder worker.
	Browser    string `gorm:"size:100" json:"browser"`
	OS         string `gorm:"size:100" json:"os"`
	DeviceType string `gorm:"size:50" json:"deviceType"`
}
