package models

import (
	"time"
)

type Link struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	ShortCode   string  `gorm:"unique;not null;size:20;index" json:"shortCode"`
	OriginalURL string  `gorm:"not null;type:text" json:"originalUrl"`
	CampaignID  *string `gorm:"size:36;index" json:"campaignId,omitempty"`

	// Mobile deep-link targeting. App URIs take precedence over fallbacks
	// when the requesting device matches the platform.
	AndroidAppURI      *string `gorm:"type:text" json:"androidAppUri"`
	AndroidFallbackURL *string `gorm:"type:text" json:"androidFallbackUrl"`
	IOSAppURI          *string `gorm:"type:text" json:"iosAppUri"`
	IOSFallbackURL     *string `gorm:"type:text" json:"iosFallbackUrl"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`

	Clicks []Click `gorm:"foreignKey:LinkID" json:"clicks,omitempty"`
}

func (Link) TableName() string {
	return "links"
}
