package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID             int64     `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`            // Login identifier, globally unique
	PasswordHash   string    `json:"-" db:"password_hash"`        // Bcrypt digest, never the plaintext
	StudentNum     string    `json:"studentNum" db:"student_num"` // Globally unique student number
	Name           string    `json:"name" db:"name"`
	Surname        string    `json:"surname" db:"surname"`
	ContactNum     string    `json:"contactNum,omitempty" db:"contact_num"` // Optional, free-form
	ModuleCode     string    `json:"moduleCode" db:"module_code"`
	ProfilePicture *string   `json:"profilePicture,omitempty" db:"profile_picture"` // Relative path under uploads/ (nullable)
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}
