package incident

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all create requests; field names are resolved from
// json tags so FieldErrors keys line up with the wire contract and with the
// backend's own "field: message" details.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

// ParseDetails recovers field-level errors from a backend `details` array,
// splitting each entry on the first ": ". Entries without a separator are
// keyed under the empty string.
func ParseDetails(details []string) FieldErrors {
	fe := FieldErrors{}
	for _, d := range details {
		field, msg, found := strings.Cut(d, ": ")
		if !found {
			fe[""] = d
			continue
		}
		fe[field] = msg
	}
	return fe
}

// CreateIncidentRequest is the POST /incidents payload. CreatedBy and
// CreatedAt are stamped at submission time; Timeline carries the single
// synthetic creation entry.
type CreateIncidentRequest struct {
	Title     string          `json:"title" validate:"required"`
	Summary   string          `json:"summary" validate:"required"`
	Severity  Severity        `json:"severity"`
	Status    Status          `json:"status"`
	CreatedBy string          `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
	Tags      []string        `json:"tags"`
	Timeline  []TimelineEvent `json:"timeline"`
	Notes     []Note          `json:"notes"`
}

// creationDescription seeds the timeline of every new incident.
const creationDescription = "Incident created"

// NewCreateRequest builds a creation payload: title and summary trimmed,
// severity defaulting to Medium, status to OPEN, tags deduplicated, and the
// timeline seeded with exactly one "Incident created" entry attributed to
// the actor.
func NewCreateRequest(title, summary string, severity Severity, status Status, tags []string, actor string, now time.Time) CreateIncidentRequest {
	if severity == "" {
		severity = SeverityMedium
	}
	if status == "" {
		status = StatusOpen
	}

	return CreateIncidentRequest{
		Title:     strings.TrimSpace(title),
		Summary:   strings.TrimSpace(summary),
		Severity:  severity,
		Status:    status,
		CreatedBy: actor,
		CreatedAt: now,
		Tags:      DedupTags(tags),
		Timeline: []TimelineEvent{{
			Timestamp:   now,
			Description: creationDescription,
			Actor:       actor,
		}},
		Notes: []Note{},
	}
}

// Validate reports field-level problems without contacting the backend.
// A nil result means the request may be submitted.
func (r CreateIncidentRequest) Validate() FieldErrors {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"": err.Error()}
	}

	fe := FieldErrors{}
	for _, v := range verrs {
		switch v.Tag() {
		case "required":
			fe[v.Field()] = displayName(v.Field()) + " is required"
		default:
			fe[v.Field()] = displayName(v.Field()) + " is invalid"
		}
	}
	return fe
}

func displayName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
