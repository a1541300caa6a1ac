package incident

import (
	"errors"
	"strings"
	"time"

	"github.com/PaulEvans8669/incidents/pkg/rand"
)

var (
	ErrNoteRequired  = errors.New("incident.QuickResolve(): resolution note is required")
	ErrNotResolvable = errors.New("incident.QuickResolve(): incident is already resolved or closed")
)

// Update is the PATCH /incidents/{id} payload. Every field is optional;
// only non-nil fields are sent. Slice fields are pointers so an explicit
// empty collection still marshals.
type Update struct {
	Title          *string          `json:"title,omitempty"`
	Summary        *string          `json:"summary,omitempty"`
	Severity       *Severity        `json:"severity,omitempty"`
	Status         *Status          `json:"status,omitempty"`
	Tags           *[]string        `json:"tags,omitempty"`
	ResolutionNote *string          `json:"resolutionNote,omitempty"`
	ResolvedAt     *time.Time       `json:"resolvedAt,omitempty"`
	Timeline       *[]TimelineEvent `json:"timeline,omitempty"`
	Notes          *[]Note          `json:"notes,omitempty"`
}

// Draft is the transient working copy held while a user edits an incident.
// Setters mutate only the draft; Changes commits, dropping the value
// discards. The record itself is untouched until the update round-trips.
type Draft struct {
	ID             string
	Title          string
	Summary        string
	Severity       Severity
	Status         Status
	Tags           []string
	ResolutionNote string

	// ResolvedAt previews the pending transition; it is stamped locally when
	// the draft status enters RESOLVED but is never part of Changes — the
	// backend owns the persisted value.
	ResolvedAt *time.Time
}

// NewDraft copies the editable state of an incident into a fresh draft.
func NewDraft(i Incident) Draft {
	tags := make([]string, len(i.Tags))
	copy(tags, i.Tags)

	return Draft{
		ID:             i.ID,
		Title:          i.Title,
		Summary:        i.Summary,
		Severity:       i.Severity,
		Status:         i.Status,
		Tags:           tags,
		ResolutionNote: i.ResolutionNote,
		ResolvedAt:     i.ResolvedAt,
	}
}

// SetStatus changes the draft status. Entering RESOLVED from any other
// status stamps ResolvedAt with now so the preview reflects the pending
// transition; no other transition touches it.
func (d *Draft) SetStatus(s Status, now time.Time) {
	if s == StatusResolved && d.Status != StatusResolved {
		d.ResolvedAt = &now
	}
	d.Status = s
}

// AddTag adds a tag to the draft; exact duplicates are a no-op.
func (d *Draft) AddTag(tag string) {
	d.Tags = AddTag(d.Tags, tag)
}

// Changes emits the six editable fields as a partial update. Nothing else
// on the record is client-editable through the draft path.
func (d Draft) Changes() Update {
	tags := make([]string, len(d.Tags))
	copy(tags, d.Tags)

	return Update{
		Title:          &d.Title,
		Summary:        &d.Summary,
		Severity:       &d.Severity,
		Status:         &d.Status,
		Tags:           &tags,
		ResolutionNote: &d.ResolutionNote,
	}
}

// QuickResolve builds the shortcut transition into RESOLVED. It requires a
// non-empty note and refuses incidents already RESOLVED or CLOSED; the
// general edit path enforces neither.
func QuickResolve(i Incident, note string, now time.Time) (Update, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return Update{}, ErrNoteRequired
	}
	if i.Status == StatusResolved || i.Status == StatusClosed {
		return Update{}, ErrNotResolvable
	}

	status := StatusResolved
	return Update{
		Status:         &status,
		ResolutionNote: &note,
		ResolvedAt:     &now,
	}, nil
}

// AppendEvent returns an update replacing the whole timeline with a copy
// carrying one new entry. The id and timestamp are generated here, when the
// add is confirmed. Concurrent appends from two clients race at the field
// level; the caller mitigates with invalidate-and-refetch on success.
func AppendEvent(i Incident, description, actor string, now time.Time) Update {
	timeline := make([]TimelineEvent, len(i.Timeline), len(i.Timeline)+1)
	copy(timeline, i.Timeline)
	timeline = append(timeline, TimelineEvent{
		ID:          rand.ID(),
		Timestamp:   now,
		Description: strings.TrimSpace(description),
		Actor:       actor,
	})
	return Update{Timeline: &timeline}
}

// AppendNote is the Note counterpart of AppendEvent.
func AppendNote(i Incident, text, author string, now time.Time) Update {
	notes := make([]Note, len(i.Notes), len(i.Notes)+1)
	copy(notes, i.Notes)
	notes = append(notes, Note{
		ID:        rand.ID(),
		Timestamp: now,
		Author:    author,
		Note:      strings.TrimSpace(text),
	})
	return Update{Notes: &notes}
}
