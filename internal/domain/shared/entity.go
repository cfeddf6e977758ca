package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity is the identity and timestamps embedded in every record. ID and
// CreatedAt are fixed at creation.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntityAt assigns a fresh random ID created and updated at now
func NewBaseEntityAt(now time.Time) BaseEntity {
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch records a modification at now
func (e *BaseEntity) Touch(now time.Time) {
	e.UpdatedAt = now
}
