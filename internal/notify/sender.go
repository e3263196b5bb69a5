package notify

import "github.com/resend/resend-go/v2"

// Message is a single outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single email. The production implementation talks to
// Resend; tests substitute a fake.
type Sender interface {
	Send(msg Message) error
}

// ResendSender delivers email through the Resend API.
type ResendSender struct {
	client *resend.Client
}

// NewResendSender creates a sender backed by the Resend API.
func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey)}
}

// Send delivers one email. Resend offers no delivery-status callback; a nil
// error only means the API accepted the message.
func (s *ResendSender) Send(msg Message) error {
	_, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	return err
}
