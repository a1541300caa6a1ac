package incident

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCreateRequest(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("applies creation defaults", func(t *testing.T) {
		r := NewCreateRequest("  DB down  ", "  primary unreachable  ", "", "", nil, "amy", now)

		assert.Equal(t, "DB down", r.Title)
		assert.Equal(t, "primary unreachable", r.Summary)
		assert.Equal(t, SeverityMedium, r.Severity)
		assert.Equal(t, StatusOpen, r.Status)
		assert.Equal(t, "amy", r.CreatedBy)
		assert.Equal(t, now, r.CreatedAt)
		assert.NotNil(t, r.Notes)
		assert.Empty(t, r.Notes)
	})

	t.Run("seeds exactly one timeline entry", func(t *testing.T) {
		r := NewCreateRequest("DB down", "primary unreachable", SeverityHigh, StatusInProgress, nil, "amy", now)

		assert.Len(t, r.Timeline, 1)
		assert.Equal(t, "Incident created", r.Timeline[0].Description)
		assert.Equal(t, "amy", r.Timeline[0].Actor)
		assert.Equal(t, now, r.Timeline[0].Timestamp)
	})

	t.Run("keeps explicit severity and status", func(t *testing.T) {
		r := NewCreateRequest("DB down", "primary unreachable", SeverityCritical, StatusInProgress, nil, "amy", now)

		assert.Equal(t, SeverityCritical, r.Severity)
		assert.Equal(t, StatusInProgress, r.Status)
	})

	t.Run("deduplicates tags", func(t *testing.T) {
		r := NewCreateRequest("DB down", "primary unreachable", "", "", []string{"db", "db", "", "api"}, "amy", now)

		assert.Equal(t, []string{"db", "api"}, r.Tags)
	})
}

func TestCreateIncidentRequestValidate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		title   string
		summary string
		want    FieldErrors
	}{
		{
			name:    "valid request",
			title:   "DB down",
			summary: "primary unreachable",
			want:    nil,
		},
		{
			name:    "missing title only",
			title:   "",
			summary: "primary unreachable",
			want:    FieldErrors{"title": "Title is required"},
		},
		{
			name:    "missing summary only",
			title:   "DB down",
			summary: "",
			want:    FieldErrors{"summary": "Summary is required"},
		},
		{
			name:    "missing both",
			title:   "",
			summary: "",
			want: FieldErrors{
				"title":   "Title is required",
				"summary": "Summary is required",
			},
		},
		{
			name:    "whitespace-only title trims to empty",
			title:   "   ",
			summary: "primary unreachable",
			want:    FieldErrors{"title": "Title is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCreateRequest(tt.title, tt.summary, "", "", nil, "amy", now)
			assert.Equal(t, tt.want, r.Validate())
		})
	}
}

func TestParseDetails(t *testing.T) {
	tests := []struct {
		name    string
		details []string
		want    FieldErrors
	}{
		{
			name:    "field-scoped entries",
			details: []string{"title: must not be blank", "summary: must not be blank"},
			want: FieldErrors{
				"title":   "must not be blank",
				"summary": "must not be blank",
			},
		},
		{
			name:    "entry without separator",
			details: []string{"request could not be processed"},
			want:    FieldErrors{"": "request could not be processed"},
		},
		{
			name:    "splits on first separator only",
			details: []string{"title: contains: odd text"},
			want:    FieldErrors{"title": "contains: odd text"},
		},
		{
			name:    "empty details",
			details: []string{},
			want:    FieldErrors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDetails(tt.details))
		})
	}
}
