package models

import "time"

// User represents a platform account that can attempt quizzes.
//
// Credential and session fields live in the auth service; this model only
// carries what listings and leaderboards need to display.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"size:255;not null" json:"full_name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null;default:User" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// RoleAdmin marks accounts that manage quizzes and questions.
	RoleAdmin = "Admin"
	// RoleUser marks regular quiz takers.
	RoleUser = "User"
)
