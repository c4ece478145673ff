package models

import (
	"time"

	"github.com/google/uuid"
)

// Preferences is stored as a jsonb blob on the users row.
type Preferences struct {
	DefaultTimeframe    string  `json:"default_timeframe" validate:"omitempty,oneof=daily weekly monthly annually"`
	DefaultScalePercent float64 `json:"default_scale_percent" validate:"omitempty,gte=0.1,lte=100"`
	Theme               string  `json:"theme" validate:"omitempty,oneof=light dark auto"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		DefaultTimeframe:    "weekly",
		DefaultScalePercent: 5,
		Theme:               "light",
	}
}

type User struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Email        string      `json:"email" db:"email"`
	Username     string      `json:"username" db:"username"`
	PasswordHash string      `json:"-" db:"password_hash"`
	FirstName    string      `json:"first_name,omitempty" db:"first_name"`
	LastName     string      `json:"last_name,omitempty" db:"last_name"`
	Preferences  Preferences `json:"preferences" db:"preferences"`
	Created      time.Time   `json:"created" db:"created"`
	Updated      time.Time   `json:"updated" db:"updated"`
}

type UpdateUserRequest struct {
	Username    *string      `json:"username" validate:"omitempty,lte=255"`
	FirstName   *string      `json:"first_name" validate:"omitempty,lte=100"`
	LastName    *string      `json:"last_name" validate:"omitempty,lte=100"`
	Preferences *Preferences `json:"preferences"`
}
