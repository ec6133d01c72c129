// models/user.go
package models

import "time"

// AuthProvider identifies where a user signed in from.
type AuthProvider struct {
	Name string `bson:"name" json:"name"`
	ID   string `bson:"id" json:"id"`
}

// User represents a platform user.
type User struct {
	ID          string       `bson:"id" json:"id"`
	Email       string       `bson:"email" json:"email"`
	Name        string       `bson:"name" json:"name"`
	Image       string       `bson:"image,omitempty" json:"image,omitempty"`
	Provider    AuthProvider `bson:"provider" json:"provider"`
	Preferences []string     `bson:"preferences,omitempty" json:"preferences,omitempty"`
	CreatedAt   time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `bson:"updated_at" json:"updated_at"`
}
