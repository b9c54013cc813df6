package forms

import (
	"fmt"
	"html"
	"strings"

	"epc-api/internal/domain"
)

// emailStyle is shared inline styling for every notification email
const emailStyle = `font-family: Arial, sans-serif; color: #1a1a1a; line-height: 1.5;`

// htmlRow renders one label/value pair, escaping the submitted value
func htmlRow(label, value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	return fmt.Sprintf("<p><strong>%s:</strong> %s</p>\n", html.EscapeString(label), html.EscapeString(trimmed))
}

// htmlBody wraps rows in the shared email frame
func htmlBody(heading string, rows ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div style="%s">`, emailStyle)
	fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(heading))
	for _, row := range rows {
		b.WriteString(row)
	}
	b.WriteString("</div>")
	return b.String()
}

func buildContactEmail(fields map[string]string) *domain.NotificationEmail {
	return &domain.NotificationEmail{
		Subject: fmt.Sprintf("New Contact Form Submission: %s", strings.TrimSpace(fields["subject"])),
		HTML: htmlBody("New Contact Form Submission",
			htmlRow("Name", fields["name"]),
			htmlRow("Email", fields["email"]),
			htmlRow("Subject", fields["subject"]),
			htmlRow("Message", fields["message"]),
		),
	}
}

func buildBookingEmail(fields map[string]string) *domain.NotificationEmail {
	return &domain.NotificationEmail{
		Subject: fmt.Sprintf("New Booking Request from %s", strings.TrimSpace(fields["name"])),
		HTML: htmlBody("New Booking Request",
			htmlRow("Name", fields["name"]),
			htmlRow("Email", fields["email"]),
			htmlRow("Phone", fields["phone"]),
			htmlRow("Service", fields["service"]),
			htmlRow("Preferred Date", fields["preferredDate"]),
			htmlRow("Message", fields["message"]),
		),
	}
}

func buildQuizEmail(fields map[string]string) *domain.NotificationEmail {
	return &domain.NotificationEmail{
		Subject: fmt.Sprintf("New Intake Quiz Submission from %s", strings.TrimSpace(fields["name"])),
		HTML: htmlBody("New Intake Quiz Submission",
			htmlRow("Name", fields["name"]),
			htmlRow("Email", fields["email"]),
			htmlRow("Phone", fields["phone"]),
			htmlRow("Primary Goal", fields["primaryGoal"]),
			htmlRow("Experience Level", fields["experienceLevel"]),
			htmlRow("Training Days", fields["trainingDays"]),
			htmlRow("Injury History", fields["injuryHistory"]),
		),
	}
}

// buildAcademyEmail returns a builder for the given academy program name;
// both academy forms share the same layout
func buildAcademyEmail(program string) func(fields map[string]string) *domain.NotificationEmail {
	return func(fields map[string]string) *domain.NotificationEmail {
		return &domain.NotificationEmail{
			Subject: fmt.Sprintf("New %s Application: %s", program, strings.TrimSpace(fields["athleteName"])),
			HTML: htmlBody(fmt.Sprintf("New %s Application", program),
				htmlRow("Athlete Name", fields["athleteName"]),
				htmlRow("Parent Name", fields["parentName"]),
				htmlRow("Email", fields["email"]),
				htmlRow("Phone", fields["phone"]),
				htmlRow("Athlete Age", fields["athleteAge"]),
				htmlRow("Sport", fields["sport"]),
				htmlRow("Days Per Week", fields["daysPerWeek"]),
				htmlRow("Payment Plan", NormalizePaymentPlan(fields["paymentPlan"])),
				htmlRow("Start Date", fields["startDate"]),
				htmlRow("Notes", fields["notes"]),
			),
		}
	}
}

func buildWinterBallEmail(fields map[string]string) *domain.NotificationEmail {
	return &domain.NotificationEmail{
		Subject: fmt.Sprintf("New Winter Ball Registration: %s", strings.TrimSpace(fields["playerName"])),
		HTML: htmlBody("New Winter Ball Registration",
			htmlRow("Player Name", fields["playerName"]),
			htmlRow("Parent Name", fields["parentName"]),
			htmlRow("Email", fields["email"]),
			htmlRow("Phone", fields["phone"]),
			htmlRow("Age Group", fields["ageGroup"]),
			htmlRow("Position", fields["position"]),
			htmlRow("Payment Plan", fields["paymentPlan"]),
		),
	}
}
