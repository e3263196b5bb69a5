package models

import "gorm.io/gorm"

// RSVPStatus is the tri-state answer a member gives for a session.
type RSVPStatus string

const (
	RSVPStatusYes   RSVPStatus = "yes"
	RSVPStatusMaybe RSVPStatus = "maybe"
	RSVPStatusNo    RSVPStatus = "no"
)

// Valid reports whether s is one of the three known statuses.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPStatusYes, RSVPStatusMaybe, RSVPStatusNo:
		return true
	}
	return false
}

// RSVP records a member's answer for a session. One row per (session, user);
// changing an answer updates the row in place rather than adding another.
type RSVP struct {
	gorm.Model
	SessionID uint       `gorm:"not null;uniqueIndex:idx_rsvps_session_user"`
	UserID    uint       `gorm:"not null;uniqueIndex:idx_rsvps_session_user"`
	Status    RSVPStatus `gorm:"size:10;not null"`

	User Profile `gorm:"foreignKey:UserID"`
}
