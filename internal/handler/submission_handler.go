package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"epc-api/internal/domain"
	"epc-api/internal/forms"
	"epc-api/internal/service/airtable"
	"epc-api/internal/service/resend"
	"epc-api/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// SubmissionHandler handles intake form submissions. The pipeline per
// request: decode, dispatch through the form registry (validation + field
// mapping), persist to the record store (mandatory), then send the
// notification email (best-effort).
type SubmissionHandler struct {
	store      *airtable.Client
	notifier   *resend.Client
	recipients []string
	logger     *logger.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(store *airtable.Client, notifier *resend.Client, recipients []string, logger *logger.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		store:      store,
		notifier:   notifier,
		recipients: recipients,
		logger:     logger,
	}
}

// submissionResponse is the success envelope. EmailSent is only reported for
// form types that warrant a notification.
type submissionResponse struct {
	Success   bool  `json:"success"`
	EmailSent *bool `json:"emailSent,omitempty"`
}

// SubmitUnified handles POST /api/submit-form, where the body carries a
// formType discriminator alongside the form fields
func (h *SubmissionHandler) SubmitUnified(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}

	formType := domain.FormType(fields["formType"])
	delete(fields, "formType")

	h.process(w, r, domain.Submission{FormType: formType, Fields: fields})
}

// SubmitForm handles POST /api/forms/{formType}, the dedicated per-type
// endpoints sharing the same registry
func (h *SubmissionHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}

	formType := domain.FormType(chi.URLParam(r, "formType"))

	h.process(w, r, domain.Submission{FormType: formType, Fields: fields})
}

// decodeFields reads the JSON body into a flat string map. Non-string
// scalars are stringified; nested values are ignored.
func (h *SubmissionHandler) decodeFields(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	var raw map[string]interface{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return nil, false
	}

	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			fields[key] = v
		case bool:
			fields[key] = strconv.FormatBool(v)
		case float64:
			fields[key] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	return fields, true
}

// process runs one submission through the pipeline
func (h *SubmissionHandler) process(w http.ResponseWriter, r *http.Request, submission domain.Submission) {
	ctx := r.Context()

	routed, fieldErrs := forms.Route(submission, time.Now(), h.recipients)
	if len(fieldErrs) > 0 {
		h.logger.WithFields(map[string]interface{}{
			"form_type": string(submission.FormType),
			"errors":    len(fieldErrs),
		}).Debug("Submission failed validation")

		writeError(w, http.StatusBadRequest, "validation failed", fieldErrs)
		return
	}

	// Mandatory step: the record store write decides the overall outcome
	if err := h.store.CreateRecord(ctx, routed.Table, routed.Record, routed.Typecast); err != nil {
		h.logger.WithError(err).WithField("table", routed.Table).Error("Failed to save submission")
		writeAppError(w, err, h.logger)
		return
	}

	response := submissionResponse{Success: true}

	// Best-effort step: a failed notification never fails the submission
	if routed.Email != nil {
		sent, err := h.notifier.Send(ctx, routed.Email)
		if err != nil {
			h.logger.WithError(err).WithField("form_type", string(submission.FormType)).
				Error("Failed to send notification email")
		}
		response.EmailSent = &sent
	}

	h.logger.WithFields(map[string]interface{}{
		"form_type": string(submission.FormType),
		"table":     routed.Table,
	}).Info("Submission saved")

	writeJSON(w, http.StatusOK, response)
}

// RegisterRoutes registers submission routes with the router. Unknown
// {formType} values fall through to the registry, which rejects them with a
// field error.
func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/submit-form", h.SubmitUnified)
	r.Post("/forms/{formType}", h.SubmitForm)
}
