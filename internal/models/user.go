package models

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

type User struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FirstName string `gorm:"not null" json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Avatar    string `json:"avatar"`

	Role         Role         `gorm:"type:text;default:'user'" json:"role"`
	AuthProvider AuthProvider `gorm:"type:text;default:'local'" json:"authProvider"`
	GoogleID     string       `gorm:"index" json:"-"`

	Password string `json:"-"`

	// Problems the user has ever been marked as having solved. Insertion is
	// idempotent; the set only grows.
	SolvedProblems []Problem `gorm:"many2many:user_solved_problems" json:"solvedProblems,omitempty"`
}
