package forms

import (
	"time"

	"epc-api/internal/domain"
	"epc-api/internal/validate"
)

// Routed is the output of dispatching one submission: the record payload for
// the store, the table it belongs in, and the optional notification email
type Routed struct {
	Table    string
	Record   domain.Record
	Typecast bool
	Email    *domain.NotificationEmail
}

// Route validates a submission against its form type's descriptor and builds
// the record and notification payloads. Unknown or missing form-type tags and
// any field-level failures are reported as the full error list, never just
// the first one.
func Route(submission domain.Submission, submittedAt time.Time, recipients []string) (*Routed, []validate.FieldError) {
	if !submission.FormType.Valid() {
		return nil, []validate.FieldError{{Field: "formType", Message: "unknown or missing form type"}}
	}

	desc, ok := Lookup(submission.FormType)
	if !ok {
		return nil, []validate.FieldError{{Field: "formType", Message: "unknown or missing form type"}}
	}

	sanitized, errs := validate.Fields(submission.Fields, desc.Rules)
	if len(errs) > 0 {
		return nil, errs
	}

	// Re-check required presence on the sanitized values before mapping
	for _, field := range desc.RequiredFields() {
		if sanitized[field] == "" {
			errs = append(errs, validate.FieldError{Field: field, Message: "field required"})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	routed := &Routed{
		Table:    desc.Table,
		Record:   desc.BuildRecord(sanitized, submittedAt),
		Typecast: desc.Typecast,
	}

	if desc.BuildEmail != nil {
		email := desc.BuildEmail(sanitized)
		email.Recipients = recipients
		routed.Email = email
	}

	return routed, nil
}
