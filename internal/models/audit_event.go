package models

import "time"

// AuditEvent is a single entry in the user-lifecycle audit trail.
type AuditEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // USER_CREATED | USER_UPDATED | USER_DELETED | LOGIN_OK | LOGIN_FAILED
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
