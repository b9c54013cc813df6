package forms

import (
	"strconv"
	"strings"
	"time"

	"epc-api/internal/domain"
	"epc-api/internal/validate"
)

// Airtable table names, one per intake form
const (
	TableContact         = "Contact Form Submissions"
	TableEmailSignup     = "Email List Signups"
	TableBooking         = "Booking Requests"
	TableQuiz            = "EPC Intake Quiz Submissions"
	TableFullTimeAcademy = "Full-Time Academy Applications"
	TablePartTimeAcademy = "Part-Time Academy Applications"
	TableWinterBall      = "Winter Ball Registrations"
)

// Descriptor declares everything the router needs to know about one form
// type: which table it lands in, its validation rules, how its fields map to
// the table's columns, and how to render the notification email. Dispatch is
// a registry lookup on the form-type tag, not a branch per type.
type Descriptor struct {
	Type  domain.FormType
	Table string
	Rules []validate.Rule
	// Typecast asks the record store to coerce values into choice-field
	// options. Only descriptors whose tables carry choice fields set it.
	Typecast    bool
	BuildRecord func(fields map[string]string, submittedAt time.Time) domain.Record
	// BuildEmail is nil for form types that do not warrant a notification
	BuildEmail func(fields map[string]string) *domain.NotificationEmail
}

// RequiredFields returns the names of the descriptor's required fields
func (d *Descriptor) RequiredFields() []string {
	var required []string
	for _, rule := range d.Rules {
		if rule.Required {
			required = append(required, rule.Field)
		}
	}
	return required
}

var registry = map[domain.FormType]*Descriptor{
	domain.FormTypeContact: {
		Type:  domain.FormTypeContact,
		Table: TableContact,
		Rules: []validate.Rule{
			{Field: "name", Type: validate.TypeName, Required: true},
			{Field: "email", Type: validate.TypeEmail, Required: true},
			{Field: "subject", Type: validate.TypeSubject, Required: true},
			{Field: "message", Type: validate.TypeMessage, Required: true},
		},
		BuildRecord: buildContactRecord,
		BuildEmail:  buildContactEmail,
	},
	domain.FormTypeEmailSignup: {
		Type:  domain.FormTypeEmailSignup,
		Table: TableEmailSignup,
		Rules: []validate.Rule{
			{Field: "email", Type: validate.TypeEmail, Required: true},
			{Field: "name", Type: validate.TypeName, Required: false},
		},
		BuildRecord: buildEmailSignupRecord,
	},
	domain.FormTypeBooking: {
		Type:  domain.FormTypeBooking,
		Table: TableBooking,
		Rules: []validate.Rule{
			{Field: "name", Type: validate.TypeName, Required: true},
			{Field: "email", Type: validate.TypeEmail, Required: true},
			{Field: "phone", Type: validate.TypePhone, Required: true},
			{Field: "service", Type: validate.TypeText, Required: false},
			{Field: "preferredDate", Type: validate.TypeText, Required: false},
			{Field: "message", Type: validate.TypeMessage, Required: false},
		},
		BuildRecord: buildBookingRecord,
		BuildEmail:  buildBookingEmail,
	},
	domain.FormTypeQuiz: {
		Type:  domain.FormTypeQuiz,
		Table: TableQuiz,
		Rules: []validate.Rule{
			{Field: "name", Type: validate.TypeName, Required: true},
			{Field: "email", Type: validate.TypeEmail, Required: true},
			{Field: "phone", Type: validate.TypePhone, Required: false},
			{Field: "primaryGoal", Type: validate.TypeText, Required: true},
			{Field: "experienceLevel", Type: validate.TypeText, Required: false},
			{Field: "trainingDays", Type: validate.TypeText, Required: false},
			{Field: "injuryHistory", Type: validate.TypeMessage, Required: false},
		},
		BuildRecord: buildQuizRecord,
		BuildEmail:  buildQuizEmail,
	},
	domain.FormTypeFullTimeAcademy: {
		Type:  domain.FormTypeFullTimeAcademy,
		Table: TableFullTimeAcademy,
		Rules: []validate.Rule{
			{Field: "athleteName", Type: validate.TypeName, Required: true},
			{Field: "parentName", Type: validate.TypeName, Required: true},
			{Field: "email", Type: validate.TypeEmail, Required: true},
			{Field: "phone", Type: validate.TypePhone, Required: true},
			{Field: "athleteAge", Type: validate.TypeText, Required: false},
			{Field: "sport", Type: validate.TypeText, Required: false},
			{Field: "paymentPlan", Type: validate.TypeText, Required: false},
			{Field: "startDate", Type: validate.TypeText, Required: false},
			{Field: "notes", Type: validate.TypeMessage, Required: false},
		},
		Typecast:    true,
		BuildRecord: buildFullTimeAcademyRecord,
		BuildEmail:  buildAcademyEmail("Full-Time Academy"),
	},
	domain.FormTypePartTimeAcademy: {
		Type:  domain.FormTypePartTimeAcademy,
		Table: TablePartTimeAcademy,
		Rules: []validate.Rule{
			{Field: "athleteName", Type: validate.TypeName, Required: true},
			{Field: "parentName", Type: validate.TypeName, Required: true},
			{Field: "email", Type: validate.TypeEmail, Required: true},
			{Field: "phone", Type: validate.TypePhone, Required: true},
			{Field: "athleteAge", Type: validate.TypeText, Required: false},
			{Field: "sport", Type: validate.TypeText, Required: false},
			{Field: "daysPerWeek", Type: validate.TypeText, Required: false},
			{Field: "paymentPlan", Type: validate.TypeText, Required: false},
			{Field: "startDate", Type: validate.TypeText, Required: false},
			{Field: "notes", Type: validate.TypeMessage, Required: false},
		},
		Typecast:    true,
		BuildRecord: buildPartTimeAcademyRecord,
		BuildEmail:  buildAcademyEmail("Part-Time Academy"),
	},
	domain.FormTypeWinterBall: {
		Type:  domain.FormTypeWinterBall,
		Table: TableWinterBall,
		Rules: []validate.Rule{
			{Field: "playerName", Type: validate.TypeName, Required: true},
			{Field: "parentName", Type: validate.TypeName, Required: true},
			{Field: "email", Type: validate.TypeEmail, Required: true},
			{Field: "phone", Type: validate.TypePhone, Required: true},
			{Field: "ageGroup", Type: validate.TypeText, Required: false},
			{Field: "position", Type: validate.TypeText, Required: false},
			{Field: "paymentPlan", Type: validate.TypeText, Required: false},
			{Field: "waiverAccepted", Type: validate.TypeText, Required: false},
		},
		Typecast:    true,
		BuildRecord: buildWinterBallRecord,
		BuildEmail:  buildWinterBallEmail,
	},
}

// Lookup returns the descriptor for a form type, or false for unknown tags
func Lookup(formType domain.FormType) (*Descriptor, bool) {
	desc, ok := registry[formType]
	return desc, ok
}

// paymentPlanLookup normalizes free-form payment plan input to the values the
// record store's choice field accepts
var paymentPlanLookup = map[string]string{
	"paid in full":   "Paid in Full",
	"full":           "Paid in Full",
	"pif":            "Paid in Full",
	"one-time":       "Paid in Full",
	"upfront":        "Paid in Full",
	"monthly":        "Monthly",
	"month":          "Monthly",
	"month-to-month": "Monthly",
	"two payments":   "Two Payments",
	"2 payments":     "Two Payments",
	"2-pay":          "Two Payments",
	"split":          "Two Payments",
}

// defaultPaymentPlan is the safe fallback when normalization cannot resolve
// the input
const defaultPaymentPlan = "Monthly"

// NormalizePaymentPlan maps free-form payment plan input to one of the
// accepted choice values, falling back to the default when it cannot resolve
func NormalizePaymentPlan(input string) string {
	key := strings.ToLower(strings.TrimSpace(input))
	if key == "" {
		return defaultPaymentPlan
	}
	if plan, ok := paymentPlanLookup[key]; ok {
		return plan
	}
	return defaultPaymentPlan
}

// submissionDate formats the timestamp the way the store's date column expects
func submissionDate(submittedAt time.Time) string {
	return submittedAt.UTC().Format("2006-01-02")
}

// setIfPresent adds a column only when the trimmed value is non-empty.
// Empty values must be omitted, not sent; the store rejects empty date fields.
func setIfPresent(record domain.Record, column, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		record[column] = trimmed
	}
}

func buildContactRecord(fields map[string]string, submittedAt time.Time) domain.Record {
	return domain.Record{
		"Name":            strings.TrimSpace(fields["name"]),
		"Email":           strings.TrimSpace(fields["email"]),
		"Subject":         strings.TrimSpace(fields["subject"]),
		"Message":         strings.TrimSpace(fields["message"]),
		"Submission Date": submissionDate(submittedAt),
	}
}

func buildEmailSignupRecord(fields map[string]string, submittedAt time.Time) domain.Record {
	record := domain.Record{
		"Email":       strings.TrimSpace(fields["email"]),
		"Signup Date": submissionDate(submittedAt),
	}
	setIfPresent(record, "Name", fields["name"])
	return record
}

func buildBookingRecord(fields map[string]string, submittedAt time.Time) domain.Record {
	record := domain.Record{
		"Name":            strings.TrimSpace(fields["name"]),
		"Email":           strings.TrimSpace(fields["email"]),
		"Phone":           strings.TrimSpace(fields["phone"]),
		"Submission Date": submissionDate(submittedAt),
	}
	setIfPresent(record, "Service", fields["service"])
	setIfPresent(record, "Preferred Date", fields["preferredDate"])
	setIfPresent(record, "Message", fields["message"])
	return record
}

func buildQuizRecord(fields map[string]string, submittedAt time.Time) domain.Record {
	record := domain.Record{
		"Name":            strings.TrimSpace(fields["name"]),
		"Email":           strings.TrimSpace(fields["email"]),
		"Primary Goal":    strings.TrimSpace(fields["primaryGoal"]),
		"Submission Date": submissionDate(submittedAt),
	}
	setIfPresent(record, "Phone", fields["phone"])
	setIfPresent(record, "Experience Level", fields["experienceLevel"])
	setIfPresent(record, "Training Days", fields["trainingDays"])
	setIfPresent(record, "Injury History", fields["injuryHistory"])
	return record
}

func buildFullTimeAcademyRecord(fields map[string]string, submittedAt time.Time) domain.Record {
	record := domain.Record{
		"Athlete Name":    strings.TrimSpace(fields["athleteName"]),
		"Parent Name":     strings.TrimSpace(fields["parentName"]),
		"Email":           strings.TrimSpace(fields["email"]),
		"Phone":           strings.TrimSpace(fields["phone"]),
		"Payment Plan":    NormalizePaymentPlan(fields["paymentPlan"]),
		"Submission Date": submissionDate(submittedAt),
	}
	setAgeIfPresent(record, "Athlete Age", fields["athleteAge"])
	setIfPresent(record, "Sport", fields["sport"])
	setIfPresent(record, "Start Date", fields["startDate"])
	setIfPresent(record, "Notes", fields["notes"])
	return record
}

func buildPartTimeAcademyRecord(fields map[string]string, submittedAt time.Time) domain.Record {
	record := buildFullTimeAcademyRecord(fields, submittedAt)
	setIfPresent(record, "Days Per Week", fields["daysPerWeek"])
	return record
}

func buildWinterBallRecord(fields map[string]string, submittedAt time.Time) domain.Record {
	record := domain.Record{
		"Player Name":     strings.TrimSpace(fields["playerName"]),
		"Parent Name":     strings.TrimSpace(fields["parentName"]),
		"Email":           strings.TrimSpace(fields["email"]),
		"Phone":           strings.TrimSpace(fields["phone"]),
		"Submission Date": submissionDate(submittedAt),
	}
	setIfPresent(record, "Age Group", fields["ageGroup"])
	setIfPresent(record, "Position", fields["position"])
	if plan := strings.TrimSpace(fields["paymentPlan"]); plan != "" {
		record["Payment Plan"] = NormalizePaymentPlan(plan)
	}
	if strings.EqualFold(strings.TrimSpace(fields["waiverAccepted"]), "true") {
		record["Waiver Accepted"] = true
	}
	return record
}

// setAgeIfPresent stores the age as a number when it parses, otherwise as the
// raw text the applicant typed
func setAgeIfPresent(record domain.Record, column, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return
	}
	if age, err := strconv.Atoi(trimmed); err == nil {
		record[column] = age
		return
	}
	record[column] = trimmed
}
