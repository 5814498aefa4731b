package models

import (
	"time"

	"github.com/google/uuid"
)

// JSONB is a free-form document stored in a jsonb column.
type JSONB map[string]interface{}

// AuditLog records one state transition: which entity changed, what it looked
// like before and after, and who changed it. Audit writes are best-effort and
// never block the underlying mutation.
type AuditLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Entity    string     `json:"entity" db:"entity"`
	EntityID  string     `json:"entity_id" db:"entity_id"`
	Action    string     `json:"action" db:"action"`
	Before    JSONB      `json:"before_state" db:"before_state"`
	After     JSONB      `json:"after_state" db:"after_state"`
	ChangedBy *uuid.UUID `json:"changed_by" db:"changed_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
