package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBaseEntity(t *testing.T) {
	created := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	e := NewBaseEntityAt(created)

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, created, e.CreatedAt)
	assert.Equal(t, created, e.UpdatedAt)
	assert.NotEqual(t, e.ID, NewBaseEntityAt(created).ID)

	e.Touch(created.Add(time.Hour))
	assert.Equal(t, created, e.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), e.UpdatedAt)
}
