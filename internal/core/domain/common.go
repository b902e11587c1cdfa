package domain

import "time"

// AuditFields records who created and last changed an account or journal entry.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // actor from the bearer token, or SystemUserID
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// SystemUserID is recorded as the actor when no authenticated user is attached to the context.
const SystemUserID = "system"
