package incident

import (
	"sort"
	"strings"
	"time"
)

// Status is the lifecycle stage of an incident. The backend accepts any
// transition between the four values; the side effects tied to entering
// RESOLVED live in Draft.SetStatus and QuickResolve.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

func (s Status) String() string {
	return string(s)
}

// IsValid checks the status against the closed enumeration.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Display returns the status with underscores replaced for rendering,
// e.g. "IN PROGRESS".
func (s Status) Display() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Severity is the impact label on an incident. The scale is conventionally
// four-valued but open-ended: values are stored as provided and compared
// case-insensitively.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Severities lists the conventional severity scale in ascending order.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func (s Severity) String() string {
	return string(s)
}

// Equals compares severities case-insensitively.
func (s Severity) Equals(other string) bool {
	return strings.EqualFold(string(s), other)
}

// TimelineEvent is an objective occurrence in an incident's life, kept
// separate from Note, which is a subjective annotation.
type TimelineEvent struct {
	ID          string    `json:"id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	Actor       string    `json:"actor"`
}

// Note is a free-text side annotation. Notes never become part of the
// incident's causal history.
type Note struct {
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Author    string    `json:"author"`
	Note      string    `json:"note"`
}

// Incident is the full record returned by GET /incidents/{id}.
type Incident struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Summary        string          `json:"summary"`
	Severity       Severity        `json:"severity"`
	Status         Status          `json:"status"`
	CreatedBy      string          `json:"createdBy"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
	ResolutionNote string          `json:"resolutionNote,omitempty"`
	ResolvedAt     *time.Time      `json:"resolvedAt,omitempty"`
	Timeline       []TimelineEvent `json:"timeline"`
	Notes          []Note          `json:"notes"`
	Tags           []string        `json:"tags"`
}

// IncidentSummary is the list-view record returned by GET /incidents/summaries.
type IncidentSummary struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary"`
	Severity       Severity   `json:"severity"`
	Status         Status     `json:"status"`
	CreatedBy      string     `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
	ResolutionNote string     `json:"resolutionNote,omitempty"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
	Tags           []string   `json:"tags"`
}

// FeedKind discriminates merged feed entries.
type FeedKind string

const (
	FeedEvent FeedKind = "event"
	FeedNote  FeedKind = "note"
)

// FeedEntry is one row of the merged timeline+notes view.
type FeedEntry struct {
	Kind      FeedKind
	ID        string
	Timestamp time.Time
	Actor     string
	Text      string
}

// Feed merges the incident's timeline events and notes into a single list
// sorted descending by timestamp, newest first.
func Feed(i Incident) []FeedEntry {
	entries := make([]FeedEntry, 0, len(i.Timeline)+len(i.Notes))

	for _, e := range i.Timeline {
		entries = append(entries, FeedEntry{
			Kind:      FeedEvent,
			ID:        e.ID,
			Timestamp: e.Timestamp,
			Actor:     e.Actor,
			Text:      e.Description,
		})
	}
	for _, n := range i.Notes {
		entries = append(entries, FeedEntry{
			Kind:      FeedNote,
			ID:        n.ID,
			Timestamp: n.Timestamp,
			Actor:     n.Author,
			Text:      n.Note,
		})
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Timestamp.After(entries[b].Timestamp)
	})

	return entries
}

// AddTag appends a tag unless an exact case-sensitive match is already
// present; adding a duplicate is a no-op.
func AddTag(tags []string, tag string) []string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return tags
	}
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}

// DedupTags preserves first-seen order while dropping exact duplicates and
// blank entries.
func DedupTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = AddTag(out, t)
	}
	return out
}
