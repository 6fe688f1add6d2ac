package models

import "github.com/google/uuid"

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

type Role struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"unique;not null" json:"name"`
}

type Blacklist struct {
	Model
	Email string `json:"email"`
	Token string `json:"token"`
}
