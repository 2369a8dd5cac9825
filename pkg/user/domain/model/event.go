package model

import "github.com/google/uuid"

type UserRegistered struct {
	UserID uuid.UUID
	Email  string
}

func (e UserRegistered) Type() string { return "UserRegistered" }

type UserProfileUpdated struct {
	UserID uuid.UUID
}

func (e UserProfileUpdated) Type() string { return "UserProfileUpdated" }

type UserStatusChanged struct {
	UserID    uuid.UUID
	NewStatus UserStatus
}

func (e UserStatusChanged) Type() string { return "UserStatusChanged" }
