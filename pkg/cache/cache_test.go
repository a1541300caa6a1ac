package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/PaulEvans8669/incidents/pkg/incident"
)

func TestStoreIncident(t *testing.T) {
	s := New(time.Minute)

	_, ok := s.Incident("abc123def")
	assert.False(t, ok)

	s.SetIncident(incident.Incident{ID: "abc123def", Title: "DB down"})

	got, ok := s.Incident("abc123def")
	assert.True(t, ok)
	assert.Equal(t, "DB down", got.Title)
}

func TestStoreSummaries(t *testing.T) {
	s := New(time.Minute)

	_, ok := s.Summaries()
	assert.False(t, ok)

	s.SetSummaries([]incident.IncidentSummary{{ID: "abc123def"}})

	got, ok := s.Summaries()
	assert.True(t, ok)
	assert.Len(t, got, 1)
}

func TestInvalidateIncident(t *testing.T) {
	s := New(time.Minute)
	s.SetIncident(incident.Incident{ID: "abc123def"})
	s.SetIncident(incident.Incident{ID: "xyz789ghi"})

	s.InvalidateIncident("abc123def")

	_, ok := s.Incident("abc123def")
	assert.False(t, ok)

	// Other records survive a targeted invalidation
	_, ok = s.Incident("xyz789ghi")
	assert.True(t, ok)
}

func TestInvalidateSummaries(t *testing.T) {
	s := New(time.Minute)
	s.SetSummaries([]incident.IncidentSummary{{ID: "abc123def"}})

	s.InvalidateSummaries()

	_, ok := s.Summaries()
	assert.False(t, ok)
}

func TestInvalidateAll(t *testing.T) {
	s := New(time.Minute)
	s.SetIncident(incident.Incident{ID: "abc123def"})
	s.SetSummaries([]incident.IncidentSummary{{ID: "abc123def"}})

	s.InvalidateAll()

	_, ok := s.Incident("abc123def")
	assert.False(t, ok)
	_, ok = s.Summaries()
	assert.False(t, ok)
}

func TestEntriesExpire(t *testing.T) {
	s := New(50 * time.Millisecond)
	s.SetIncident(incident.Incident{ID: "abc123def"})
	s.SetSummaries([]incident.IncidentSummary{{ID: "abc123def"}})

	time.Sleep(120 * time.Millisecond)

	_, ok := s.Incident("abc123def")
	assert.False(t, ok)
	_, ok = s.Summaries()
	assert.False(t, ok)
}

func TestNewDefaultsTTL(t *testing.T) {
	s := New(0)
	s.SetIncident(incident.Incident{ID: "abc123def"})

	_, ok := s.Incident("abc123def")
	assert.True(t, ok)
}
