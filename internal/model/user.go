package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a staff member. Role: "admin" | "seller".
// Code is the unique 5-digit seller code typed in at checkout to attribute
// the sale; it is generated at creation and never changes.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'seller'"`
	Code         string    `gorm:"type:varchar(5);uniqueIndex;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
