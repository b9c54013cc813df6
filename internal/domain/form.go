package domain

// FormType identifies which intake form a submission came from
type FormType string

const (
	FormTypeContact         FormType = "contact"
	FormTypeEmailSignup     FormType = "email-signup"
	FormTypeBooking         FormType = "booking"
	FormTypeQuiz            FormType = "quiz"
	FormTypeFullTimeAcademy FormType = "fulltime-academy"
	FormTypePartTimeAcademy FormType = "parttime-academy"
	FormTypeWinterBall      FormType = "winter-ball"
)

// Valid reports whether the form type is one of the known intake forms
func (ft FormType) Valid() bool {
	switch ft {
	case FormTypeContact, FormTypeEmailSignup, FormTypeBooking, FormTypeQuiz,
		FormTypeFullTimeAcademy, FormTypePartTimeAcademy, FormTypeWinterBall:
		return true
	}
	return false
}

// Submission is the ephemeral request payload of one form post. Field names
// are form-type-dependent; the router decides which ones matter. It is never
// persisted here - persistence is delegated to the record store.
type Submission struct {
	FormType FormType
	Fields   map[string]string
}

// Record is a flat field-name to value mapping shaped to match one external
// table's schema. Optional fields are omitted entirely rather than sent as
// empty values; the record store rejects empty date-typed fields.
type Record map[string]interface{}

// NotificationEmail is a transient email payload derived from a Record.
// It is sent at most once per submission and failure is non-fatal.
type NotificationEmail struct {
	Subject    string
	Recipients []string
	HTML       string
}
