package types

import "time"

// TokenRow is the durable token record, at most one live row per
// installation, upserted on exchange and refresh. The refresh token
// is sealed at rest when a seal key is configured.
type TokenRow struct {
	ID             uint   `gorm:"primaryKey"`
	InstallationID string `gorm:"size:64;uniqueIndex;not null"`
	AccessToken    string `gorm:"size:1024;not null"`
	SealedRefresh  []byte `gorm:"type:varbinary(2048)"`
	ExpiresAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ClassificationRow is the audit trail of produced results.
type ClassificationRow struct {
	ID                uint   `gorm:"primaryKey"`
	UserID            string `gorm:"size:64;index;not null"`
	Category          string `gorm:"size:32"`
	Confidence        float64
	BasedScore        float64
	TruthfulnessScore float64
	CreatedAt         time.Time
}
