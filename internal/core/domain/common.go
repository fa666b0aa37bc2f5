package domain

import "time"

// AuditFields holds standard audit information embedded in every persisted
// entity. User IDs are opaque references supplied by the identity layer.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
