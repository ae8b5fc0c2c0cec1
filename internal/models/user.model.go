package models

import (
	"strings"
	"time"
)

type User struct {
	BaseUUIDModel
	Subject     string     `gorm:"type:text;not null;uniqueIndex" json:"-"`
	Email       *string    `gorm:"type:text;uniqueIndex"          json:"email,omitempty"`
	DisplayName string     `gorm:"type:text"                      json:"displayName"`
	IsActive    bool       `gorm:"type:bool;default:true"         json:"isActive"`
	LastLoginAt *time.Time `gorm:"type:timestamp"                 json:"lastLoginAt,omitempty"`
}

// UpdateFromClaims refreshes profile fields from a verified bearer token.
func (u *User) UpdateFromClaims(email, name string) {
	now := time.Now()
	u.LastLoginAt = &now

	if email = strings.TrimSpace(email); email != "" {
		u.Email = &email
	}

	if name = strings.TrimSpace(name); name != "" {
		u.DisplayName = name
	} else if u.DisplayName == "" && u.Email != nil {
		u.DisplayName = strings.Split(*u.Email, "@")[0]
	}
}
