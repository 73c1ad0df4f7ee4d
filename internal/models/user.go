package models

import (
	"time"

	"edlink/internal/domain"
)

// User is a row of the account directory. The chat core only reads it.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Role         string    `gorm:"size:20;not null;index" json:"role"` // TEACHER | STUDENT | ADMIN
	Standard     string    `gorm:"size:32" json:"standard,omitempty"`  // students only
	Status       string    `gorm:"size:20" json:"status"`              // PENDING | APPROVED | REJECTED
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// ParsedRole returns the typed role, or an error for unknown role strings.
func (u *User) ParsedRole() (domain.Role, error) {
	return domain.ParseRole(u.Role)
}
