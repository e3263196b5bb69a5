package models

import "gorm.io/gorm"

// Profile represents a member of the crew.
type Profile struct {
	gorm.Model
	Name         string  `gorm:"size:255;not null"`
	Email        string  `gorm:"size:255;unique;not null"`
	PasswordHash string  `gorm:"size:255;not null"`
	Phone        *string `gorm:"size:50"` // For WhatsApp notifications, not yet delivered
	AvatarURL    *string `gorm:"size:512"`
	Role         string  `gorm:"size:50;not null;default:'member';index"`

	// Notification preferences. Both default to on; users opt out.
	WantsNotifications bool `gorm:"not null;default:true"`
	WantsRsvpUpdates   bool `gorm:"not null;default:true"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p Profile) IsAdmin() bool {
	return p.Role == "admin"
}
