package notify

import (
	"fmt"

	"pickleball/backend/internal/models"
	"pickleball/backend/internal/pricing"
)

const emailDateFormat = "Monday, January 2, 2006 at 3:04 PM"

func sessionCreatedSubject(session models.Session) string {
	return fmt.Sprintf("🏓 New Game: %s", session.Title)
}

func sessionCreatedHTML(session models.Session, appURL string) string {
	costPerPerson := pricing.CostPerPerson(session.TotalCost, session.YesCount())

	sessionURL := appURL
	if session.IsPrivate && session.PrivateKey != "" {
		sessionURL = fmt.Sprintf("%s/session?key=%s", appURL, session.PrivateKey)
	}

	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h1 style="color: #0f766e; text-align: center;">🏓 New Pickleball Session!</h1>

			<div style="background: #f0fdfa; border-radius: 8px; padding: 20px; margin: 20px 0;">
				<h2 style="color: #134e4a; margin-top: 0;">%s</h2>
				<div style="margin: 15px 0;"><strong>📅 When:</strong> %s</div>
				<div style="margin: 15px 0;"><strong>📍 Where:</strong> %s</div>
				<div style="margin: 15px 0;"><strong>💰 Cost:</strong> $%.2f per person (splits as more join!)</div>
				<div style="margin: 15px 0;"><strong>👤 Created by:</strong> %s</div>
			</div>

			<div style="text-align: center; margin: 30px 0;">
				<a href="%s" style="background: #0f766e; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: bold; display: inline-block;">
					Join This Session
				</a>
			</div>

			<p style="text-align: center; color: #6b7280; font-size: 14px;">
				Click "Join This Session" to RSVP and see who else is playing!
			</p>
		</div>`,
		session.Title,
		session.DateTime.Format(emailDateFormat),
		session.Location,
		pricing.RoundForDisplay(costPerPerson),
		session.Creator.Name,
		sessionURL,
	)
}

func rsvpConfirmedSubject(session models.Session, joinerName string) string {
	return fmt.Sprintf("🎯 %s joined %s", joinerName, session.Title)
}

func rsvpConfirmedHTML(session models.Session, joinerName, appURL string) string {
	attendeeCount := session.YesCount()
	costPerPerson := pricing.CostPerPerson(session.TotalCost, attendeeCount)

	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h1 style="color: #0f766e; text-align: center;">🎯 Someone Joined Your Game!</h1>

			<div style="background: #f0fdfa; border-radius: 8px; padding: 20px; margin: 20px 0;">
				<h2 style="color: #134e4a; margin-top: 0;">%s</h2>

				<div style="background: #dcfdf7; border-radius: 6px; padding: 15px; margin: 15px 0; border-left: 4px solid #14b8a6;">
					<strong style="color: #0f766e;">🎉 %s just joined!</strong>
				</div>

				<div style="margin: 15px 0;"><strong>📅 When:</strong> %s</div>
				<div style="margin: 15px 0;"><strong>📍 Where:</strong> %s</div>
				<div style="margin: 15px 0; font-size: 18px; color: #0f766e;"><strong>💰 New Cost: $%.2f per person</strong></div>
				<div style="margin: 15px 0;"><strong>👥 Players:</strong> %d/%d</div>
			</div>

			<div style="text-align: center; margin: 30px 0;">
				<a href="%s" style="background: #0f766e; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: bold; display: inline-block;">
					View Session
				</a>
			</div>
		</div>`,
		session.Title,
		joinerName,
		session.DateTime.Format(emailDateFormat),
		session.Location,
		pricing.RoundForDisplay(costPerPerson),
		attendeeCount,
		session.MaxPlayers,
		appURL,
	)
}
