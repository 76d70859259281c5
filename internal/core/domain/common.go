package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Timestamps are timezone-aware instants used only for audit ordering,
// never for accounting-period determination (those use calendar dates).
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // actor reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
