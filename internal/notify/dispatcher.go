package notify

import (
	"log"
	"time"

	"pickleball/backend/internal/models"
)

// DefaultSendDelay is the pause between consecutive sends. Resend rate-limits
// bursts, so messages go out one at a time with a gap rather than in parallel.
const DefaultSendDelay = 600 * time.Millisecond

// Dispatcher sends notification emails for session events. Sends are
// best-effort: the caller has already committed the triggering change, and a
// failed send is logged and skipped, never surfaced as an operation failure.
type Dispatcher struct {
	Sender Sender
	From   string
	AppURL string

	// Delay between consecutive sends. Tests set this to zero.
	Delay time.Duration
}

// NewDispatcher creates a dispatcher with the default inter-send delay.
func NewDispatcher(sender Sender, from, appURL string) *Dispatcher {
	return &Dispatcher{
		Sender: sender,
		From:   from,
		AppURL: appURL,
		Delay:  DefaultSendDelay,
	}
}

// SessionCreated emails everyone eligible to hear about a new session.
// The session must have Creator loaded; profiles is the candidate pool
// (normally every profile with notifications enabled). Returns the number of
// successful sends.
func (d *Dispatcher) SessionCreated(session models.Session, profiles []models.Profile) int {
	recipients := SessionCreatedRecipients(session, profiles)
	if len(recipients) == 0 {
		log.Printf("notify: no recipients for session %d, skipping", session.ID)
		return 0
	}

	return d.send(recipients, sessionCreatedSubject(session), sessionCreatedHTML(session, d.AppURL))
}

// RSVPConfirmed emails the creator and confirmed players that joiner has
// taken a spot. The session must have Creator and RSVPs (with User) loaded,
// reflecting the state after the join. Returns the number of successful sends.
func (d *Dispatcher) RSVPConfirmed(session models.Session, joiner models.Profile) int {
	recipients := RSVPConfirmedRecipients(session, joiner.ID)
	if len(recipients) == 0 {
		log.Printf("notify: nobody wants RSVP updates for session %d, skipping", session.ID)
		return 0
	}

	return d.send(recipients, rsvpConfirmedSubject(session, joiner.Name), rsvpConfirmedHTML(session, joiner.Name, d.AppURL))
}

// send delivers the same message to each recipient sequentially, pausing
// between sends to respect the provider's rate limit. A failure for one
// recipient does not stop the rest; there are no retries.
func (d *Dispatcher) send(recipients []string, subject, html string) int {
	sent := 0
	for i, to := range recipients {
		err := d.Sender.Send(Message{
			From:    d.From,
			To:      to,
			Subject: subject,
			HTML:    html,
		})
		if err != nil {
			log.Printf("notify: failed to send to %s: %v", to, err)
		} else {
			sent++
		}

		if i < len(recipients)-1 {
			time.Sleep(d.Delay)
		}
	}

	log.Printf("notify: sent %d/%d emails for %q", sent, len(recipients), subject)
	return sent
}
