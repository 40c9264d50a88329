package domain

import (
	"time"

	"github.com/google/uuid"
)

type Bank struct {
	ID        uuid.UUID
	Name      string
	ManagerID *uuid.UUID
	CreatedAt time.Time
}

// ManagedBy reports whether managerID is the bank's current manager.
func (b *Bank) ManagedBy(managerID uuid.UUID) bool {
	return b.ManagerID != nil && *b.ManagerID == managerID
}
