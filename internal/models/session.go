package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Session represents a scheduled play session at a venue.
type Session struct {
	gorm.Model
	CreatedBy     uint      `gorm:"not null;index"`
	Title         string    `gorm:"size:255;not null"`
	DateTime      time.Time `gorm:"not null;index"` // venue-local start time
	Location      string    `gorm:"size:255;not null"`
	MaxPlayers    int       `gorm:"not null;default:4"`
	DurationHours float64   `gorm:"not null;default:1"`
	Notes         string

	// Derived fields, owned by the pricing engine. Never written from input:
	// recomputed on every create/update and on RSVP changes for venues whose
	// cost depends on the attendee count.
	TotalCost  float64 `gorm:"not null;default:0"`
	IsPeakTime bool    `gorm:"not null;default:false"`

	// Private sessions are reachable only via PrivateKey or an invite.
	IsPrivate      bool                      `gorm:"not null;default:false"`
	PrivateKey     string                    `gorm:"size:64;index"`
	InvitedUserIDs datatypes.JSONSlice[uint] // only meaningful when IsPrivate

	Creator Profile `gorm:"foreignKey:CreatedBy"`
	RSVPs   []RSVP  `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// YesCount returns the number of confirmed attendees among the loaded RSVPs.
func (s Session) YesCount() int {
	count := 0
	for _, r := range s.RSVPs {
		if r.Status == RSVPStatusYes {
			count++
		}
	}
	return count
}

// IsInvited reports whether the given user is on the invite list.
func (s Session) IsInvited(userID uint) bool {
	for _, id := range s.InvitedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
