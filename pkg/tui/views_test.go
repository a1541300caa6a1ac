package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PaulEvans8669/incidents/pkg/api"
	"github.com/PaulEvans8669/incidents/pkg/incident"
)

func TestFormRendersEveryFieldError(t *testing.T) {
	m := newTestModel(api.NewMockClient())
	m.mode = modeCreate
	m.form = newCreateForm()
	m.form.errs = incident.FieldErrors{
		"title":    "Title is required",
		"severity": "unknown value",
		"priority": "unsupported field",
		"":         "request rejected",
	}

	out := m.renderForm()

	assert.Contains(t, out, "Title is required")
	assert.Contains(t, out, "unknown value")
	// Details keyed to fields the form does not show still surface,
	// prefixed with their field name; whole-request messages render bare.
	assert.Contains(t, out, "priority: unsupported field")
	assert.Contains(t, out, "request rejected")
}

func TestFormWithoutErrorsRendersNone(t *testing.T) {
	m := newTestModel(api.NewMockClient())
	m.mode = modeCreate
	m.form = newCreateForm()

	out := m.renderForm()

	assert.NotContains(t, out, "required")
	assert.Contains(t, out, "New incident")
}
