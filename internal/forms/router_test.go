package forms

import (
	"testing"
	"time"

	"epc-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var submittedAt = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

func contactFields() map[string]string {
	return map[string]string{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"subject": "Training availability",
		"message": "Do you have evening slots?",
	}
}

func TestRoute_Contact(t *testing.T) {
	routed, errs := Route(domain.Submission{
		FormType: domain.FormTypeContact,
		Fields:   contactFields(),
	}, submittedAt, []string{"info@epcla.com"})

	require.Empty(t, errs)
	assert.Equal(t, TableContact, routed.Table)
	assert.False(t, routed.Typecast)

	assert.Equal(t, "Jane Doe", routed.Record["Name"])
	assert.Equal(t, "jane@example.com", routed.Record["Email"])
	assert.Equal(t, "Training availability", routed.Record["Subject"])
	assert.Equal(t, "2026-01-15", routed.Record["Submission Date"])

	require.NotNil(t, routed.Email)
	assert.Contains(t, routed.Email.Subject, "Training availability")
	assert.Equal(t, []string{"info@epcla.com"}, routed.Email.Recipients)
	assert.Contains(t, routed.Email.HTML, "Jane Doe")
}

func TestRoute_UnknownFormType(t *testing.T) {
	tests := []struct {
		name     string
		formType domain.FormType
	}{
		{name: "unknown tag", formType: "newsletter"},
		{name: "missing tag", formType: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routed, errs := Route(domain.Submission{
				FormType: tt.formType,
				Fields:   contactFields(),
			}, submittedAt, nil)

			assert.Nil(t, routed)
			require.Len(t, errs, 1)
			assert.Equal(t, "formType", errs[0].Field)
		})
	}
}

func TestRoute_RequiredFieldsPerType(t *testing.T) {
	tests := []struct {
		formType domain.FormType
		required []string
	}{
		{domain.FormTypeContact, []string{"name", "email", "subject", "message"}},
		{domain.FormTypeEmailSignup, []string{"email"}},
		{domain.FormTypeBooking, []string{"name", "email", "phone"}},
		{domain.FormTypeQuiz, []string{"name", "email", "primaryGoal"}},
		{domain.FormTypeFullTimeAcademy, []string{"athleteName", "parentName", "email", "phone"}},
		{domain.FormTypePartTimeAcademy, []string{"athleteName", "parentName", "email", "phone"}},
		{domain.FormTypeWinterBall, []string{"playerName", "parentName", "email", "phone"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.formType), func(t *testing.T) {
			// Empty submission reports every required field by name
			routed, errs := Route(domain.Submission{
				FormType: tt.formType,
				Fields:   map[string]string{},
			}, submittedAt, nil)

			assert.Nil(t, routed)

			fields := make([]string, 0, len(errs))
			for _, err := range errs {
				fields = append(fields, err.Field)
			}
			assert.ElementsMatch(t, tt.required, fields)
		})
	}
}

func TestRoute_EmailSignup(t *testing.T) {
	routed, errs := Route(domain.Submission{
		FormType: domain.FormTypeEmailSignup,
		Fields:   map[string]string{"email": "fan@example.com"},
	}, submittedAt, []string{"info@epcla.com"})

	require.Empty(t, errs)
	assert.Equal(t, TableEmailSignup, routed.Table)
	assert.Equal(t, "fan@example.com", routed.Record["Email"])
	assert.Equal(t, "2026-01-15", routed.Record["Signup Date"])

	// Optional name was empty: the column is omitted, not sent empty
	_, present := routed.Record["Name"]
	assert.False(t, present)

	// Signups do not warrant a notification email
	assert.Nil(t, routed.Email)
}

func TestRoute_BookingOmitsEmptyOptionals(t *testing.T) {
	routed, errs := Route(domain.Submission{
		FormType: domain.FormTypeBooking,
		Fields: map[string]string{
			"name":  "Jane Doe",
			"email": "jane@example.com",
			"phone": "3105551234",
		},
	}, submittedAt, nil)

	require.Empty(t, errs)
	for _, column := range []string{"Service", "Preferred Date", "Message"} {
		_, present := routed.Record[column]
		assert.False(t, present, "column %q should be omitted", column)
	}
}

func TestRoute_AcademyPaymentPlanNormalized(t *testing.T) {
	fields := map[string]string{
		"athleteName": "Sam Smith",
		"parentName":  "Alex Smith",
		"email":       "alex@example.com",
		"phone":       "3105551234",
		"athleteAge":  "14",
		"paymentPlan": "PIF",
	}

	routed, errs := Route(domain.Submission{
		FormType: domain.FormTypeFullTimeAcademy,
		Fields:   fields,
	}, submittedAt, []string{"info@epcla.com"})

	require.Empty(t, errs)
	assert.Equal(t, TableFullTimeAcademy, routed.Table)
	assert.True(t, routed.Typecast)
	assert.Equal(t, "Paid in Full", routed.Record["Payment Plan"])
	assert.Equal(t, 14, routed.Record["Athlete Age"])
	require.NotNil(t, routed.Email)
	assert.Contains(t, routed.Email.Subject, "Sam Smith")
}

func TestRoute_WinterBallWaiver(t *testing.T) {
	routed, errs := Route(domain.Submission{
		FormType: domain.FormTypeWinterBall,
		Fields: map[string]string{
			"playerName":     "Sam Smith",
			"parentName":     "Alex Smith",
			"email":          "alex@example.com",
			"phone":          "3105551234",
			"waiverAccepted": "true",
		},
	}, submittedAt, nil)

	require.Empty(t, errs)
	assert.Equal(t, true, routed.Record["Waiver Accepted"])

	// No payment plan submitted: the choice column is omitted entirely
	_, present := routed.Record["Payment Plan"]
	assert.False(t, present)
}

func TestNormalizePaymentPlan(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Paid in Full", "Paid in Full"},
		{"pif", "Paid in Full"},
		{"FULL", "Paid in Full"},
		{"monthly", "Monthly"},
		{"2-pay", "Two Payments"},
		{"Two Payments", "Two Payments"},
		{"whatever else", "Monthly"},
		{"", "Monthly"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePaymentPlan(tt.input))
		})
	}
}

func TestRoute_EveryRecordCarriesSubmissionDate(t *testing.T) {
	submissions := map[domain.FormType]map[string]string{
		domain.FormTypeContact:         contactFields(),
		domain.FormTypeBooking:         {"name": "J D", "email": "j@example.com", "phone": "3105551234"},
		domain.FormTypeQuiz:            {"name": "J D", "email": "j@example.com", "primaryGoal": "velocity"},
		domain.FormTypeFullTimeAcademy: {"athleteName": "S S", "parentName": "A S", "email": "a@example.com", "phone": "3105551234"},
		domain.FormTypePartTimeAcademy: {"athleteName": "S S", "parentName": "A S", "email": "a@example.com", "phone": "3105551234"},
		domain.FormTypeWinterBall:      {"playerName": "S S", "parentName": "A S", "email": "a@example.com", "phone": "3105551234"},
	}

	for formType, fields := range submissions {
		t.Run(string(formType), func(t *testing.T) {
			routed, errs := Route(domain.Submission{FormType: formType, Fields: fields}, submittedAt, nil)
			require.Empty(t, errs)
			assert.Equal(t, "2026-01-15", routed.Record["Submission Date"])
		})
	}
}

func TestBuildEmail_EscapesHTML(t *testing.T) {
	fields := contactFields()
	fields["message"] = `<script>alert("x")</script>`

	routed, errs := Route(domain.Submission{
		FormType: domain.FormTypeContact,
		Fields:   fields,
	}, submittedAt, nil)

	require.Empty(t, errs)
	require.NotNil(t, routed.Email)
	assert.NotContains(t, routed.Email.HTML, "<script>")
	assert.Contains(t, routed.Email.HTML, "&lt;script&gt;")
}
