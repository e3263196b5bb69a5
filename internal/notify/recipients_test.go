package notify

import (
	"testing"

	"pickleball/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func profile(id uint, email string, wantsNotifications, wantsRsvpUpdates bool) models.Profile {
	return models.Profile{
		Model:              gorm.Model{ID: id},
		Name:               email,
		Email:              email,
		WantsNotifications: wantsNotifications,
		WantsRsvpUpdates:   wantsRsvpUpdates,
	}
}

func TestSessionCreatedRecipientsPublic(t *testing.T) {
	session := models.Session{Model: gorm.Model{ID: 1}, CreatedBy: 1}
	profiles := []models.Profile{
		profile(1, "creator@example.com", true, true),
		profile(2, "opted-in@example.com", true, true),
		profile(3, "opted-out@example.com", false, true),
		profile(4, "another@example.com", true, false),
	}

	got := SessionCreatedRecipients(session, profiles)

	// Creator and opted-out members are excluded; wants_rsvp_updates is
	// irrelevant for session-created mail.
	assert.Equal(t, []string{"opted-in@example.com", "another@example.com"}, got)
}

func TestSessionCreatedRecipientsPrivate(t *testing.T) {
	profiles := []models.Profile{
		profile(1, "creator@example.com", true, true),
		profile(2, "invited@example.com", true, true),
		profile(3, "invited-opted-out@example.com", false, true),
		profile(4, "uninvited@example.com", true, true),
	}

	t.Run("only invited members who opted in", func(t *testing.T) {
		session := models.Session{
			Model:          gorm.Model{ID: 1},
			CreatedBy:      1,
			IsPrivate:      true,
			InvitedUserIDs: datatypes.JSONSlice[uint]{2, 3},
		}

		got := SessionCreatedRecipients(session, profiles)
		assert.Equal(t, []string{"invited@example.com"}, got)
	})

	t.Run("empty invite list means nobody, not everybody", func(t *testing.T) {
		session := models.Session{
			Model:     gorm.Model{ID: 1},
			CreatedBy: 1,
			IsPrivate: true,
		}

		got := SessionCreatedRecipients(session, profiles)
		assert.Empty(t, got)
	})
}

func TestRSVPConfirmedRecipients(t *testing.T) {
	creator := profile(1, "creator@example.com", true, true)
	confirmed := profile(2, "confirmed@example.com", true, true)
	quiet := profile(3, "quiet@example.com", true, false)
	joiner := profile(4, "joiner@example.com", true, true)

	session := models.Session{
		Model:     gorm.Model{ID: 1},
		CreatedBy: creator.ID,
		Creator:   creator,
		RSVPs: []models.RSVP{
			{SessionID: 1, UserID: confirmed.ID, Status: models.RSVPStatusYes, User: confirmed},
			{SessionID: 1, UserID: quiet.ID, Status: models.RSVPStatusYes, User: quiet},
			{SessionID: 1, UserID: 5, Status: models.RSVPStatusMaybe, User: profile(5, "maybe@example.com", true, true)},
			{SessionID: 1, UserID: joiner.ID, Status: models.RSVPStatusYes, User: joiner},
		},
	}

	got := RSVPConfirmedRecipients(session, joiner.ID)

	// Creator plus confirmed players wanting updates; no maybes, no opted-out,
	// and never the joiner themselves.
	assert.Equal(t, []string{"creator@example.com", "confirmed@example.com"}, got)
}

func TestRSVPConfirmedRecipientsCreatorIsJoiner(t *testing.T) {
	creator := profile(1, "creator@example.com", true, true)
	session := models.Session{
		Model:     gorm.Model{ID: 1},
		CreatedBy: creator.ID,
		Creator:   creator,
		RSVPs: []models.RSVP{
			{SessionID: 1, UserID: creator.ID, Status: models.RSVPStatusYes, User: creator},
		},
	}

	// A creator confirming their own session must not be emailed about it.
	assert.Empty(t, RSVPConfirmedRecipients(session, creator.ID))
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"a@example.com", "b@example.com", "a@example.com", ""})
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, got)
}
