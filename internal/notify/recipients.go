package notify

import "pickleball/backend/internal/models"

// SessionCreatedRecipients selects the emails to notify about a new session.
//
// Public sessions go to every profile that opted into notifications, except
// the creator. Private sessions go only to invited users who opted in; an
// empty invite list means nobody is emailed, never a public broadcast.
func SessionCreatedRecipients(session models.Session, profiles []models.Profile) []string {
	var recipients []string
	for _, p := range profiles {
		if !p.WantsNotifications || p.ID == session.CreatedBy {
			continue
		}
		if session.IsPrivate && !session.IsInvited(p.ID) {
			continue
		}
		recipients = append(recipients, p.Email)
	}
	return dedupe(recipients)
}

// RSVPConfirmedRecipients selects the emails to notify when actorID confirms
// a spot: the creator plus every already-confirmed player, each only if they
// want RSVP updates, and never the confirming user themselves. The session
// must have Creator and RSVPs (with User) loaded.
func RSVPConfirmedRecipients(session models.Session, actorID uint) []string {
	var recipients []string

	if session.Creator.WantsRsvpUpdates && session.CreatedBy != actorID {
		recipients = append(recipients, session.Creator.Email)
	}

	for _, rsvp := range session.RSVPs {
		if rsvp.Status != models.RSVPStatusYes || rsvp.UserID == actorID {
			continue
		}
		if rsvp.User.WantsRsvpUpdates {
			recipients = append(recipients, rsvp.User.Email)
		}
	}

	return dedupe(recipients)
}

// dedupe reduces the list to unique addresses, preserving first-seen order.
func dedupe(emails []string) []string {
	seen := make(map[string]bool, len(emails))
	var unique []string
	for _, email := range emails {
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		unique = append(unique, email)
	}
	return unique
}
