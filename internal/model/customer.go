package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a directory record upserted by cedula lookup during checkout.
// Identity is the (CreatedBy, Cedula) pair — the same cedula may exist under
// different store scopes.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Cedula    string    `gorm:"not null;uniqueIndex:idx_scope_cedula"`
	Name      string    `gorm:"not null"`
	Phone     int64     `gorm:"not null"`
	Address   string    `gorm:"not null"`
	CreatedBy string    `gorm:"not null;uniqueIndex:idx_scope_cedula"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
