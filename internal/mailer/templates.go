package mailer

import (
	"fmt"
	"html"
	"time"

	"github.com/diagnosis/travelmate/pkg/events"
)

const dateLayout = "Jan 2, 2006"

func OTPEmail(toEmail, toName, code string, ttl time.Duration) Message {
	minutes := int(ttl.Minutes())
	return Message{
		ToEmail: toEmail,
		ToName:  toName,
		Subject: "Your OTP for TravelMate Signup",
		Text: fmt.Sprintf("Welcome to TravelMate!\n\nYour verification code is %s. It is valid for %d minutes. Please do not share it with anyone.\n\nIf you did not request this, ignore this email.",
			code, minutes),
		HTML: fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; color: #333;">
			<h2 style="color: #ffcc00;">Welcome to TravelMate!</h2>
			<p>Hey %s,</p>
			<p>To complete your registration, use the code below to verify your email address:</p>
			<p style="font-size: 24px; font-weight: bold; background: #ffcc00; padding: 10px 20px; display: inline-block; border-radius: 8px;">%s</p>
			<p>This code is valid for %d minutes. Please do not share it with anyone.</p>
			<p>If you did not request this verification, please ignore this email.</p>
			<p>Cheers,<br>The TravelMate Team</p>
		</div>`, html.EscapeString(toName), code, minutes),
	}
}

func BookingRequestedEmail(ev events.BookingRequestedEvent) Message {
	return Message{
		ToEmail: ev.GuideEmail,
		ToName:  ev.GuideName,
		Subject: "New booking request on TravelMate",
		Text: fmt.Sprintf("%s wants to book you for %s, %s to %s, %d people. Open your requests to accept or decline.",
			ev.TravelerName, ev.Destination, ev.StartDate.Format(dateLayout), ev.EndDate.Format(dateLayout), ev.NumberOfPeople),
		HTML: fmt.Sprintf(`
		<h2>New booking request</h2>
		<p><strong>%s</strong> wants to book you for <strong>%s</strong>.</p>
		<p>%s to %s, %d people.</p>
		<p>Open your requests to accept or decline.</p>`,
			html.EscapeString(ev.TravelerName), html.EscapeString(ev.Destination),
			ev.StartDate.Format(dateLayout), ev.EndDate.Format(dateLayout), ev.NumberOfPeople),
	}
}

func BookingDecisionEmail(ev events.BookingDecisionEvent) Message {
	verb := "accepted"
	if ev.Status != "accepted" {
		verb = "declined"
	}
	return Message{
		ToEmail: ev.TravelerEmail,
		ToName:  ev.TravelerName,
		Subject: fmt.Sprintf("Your booking for %s was %s", ev.Destination, verb),
		Text: fmt.Sprintf("Hi %s, %s %s your booking request for %s starting %s.",
			ev.TravelerName, ev.GuideName, verb, ev.Destination, ev.StartDate.Format(dateLayout)),
		HTML: fmt.Sprintf(`
		<p>Hi %s,</p>
		<p><strong>%s</strong> %s your booking request for <strong>%s</strong> starting %s.</p>`,
			html.EscapeString(ev.TravelerName), html.EscapeString(ev.GuideName), verb,
			html.EscapeString(ev.Destination), ev.StartDate.Format(dateLayout)),
	}
}

func GuideStatusEmail(ev events.GuideStatusChangedEvent) Message {
	line := "Your guide profile has been approved. Travelers can now find and book you."
	if ev.Status != "verified" {
		line = "Your guide profile was not approved. Please review your details and documents."
	}
	return Message{
		ToEmail: ev.Email,
		ToName:  ev.Name,
		Subject: "Your TravelMate guide profile",
		Text:    fmt.Sprintf("Hi %s,\n\n%s", ev.Name, line),
		HTML:    fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", html.EscapeString(ev.Name), line),
	}
}
