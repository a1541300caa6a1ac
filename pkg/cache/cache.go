// Package cache holds the only shared mutable state in the client: fetched
// records keyed by incident id plus the single summary-list key. Entries go
// stale after a fixed TTL, and every successful mutation invalidates the
// affected keys rather than patching them, forcing a fresh read.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/PaulEvans8669/incidents/pkg/incident"
)

const (
	// DefaultTTL matches the list view's background refresh interval.
	DefaultTTL = 30 * time.Second

	summariesKey = "summaries"

	maxIncidents = 128
)

// Store caches fetched incidents and the summary list.
type Store struct {
	incidents *expirable.LRU[string, incident.Incident]
	summaries *expirable.LRU[string, []incident.IncidentSummary]
}

// New returns a store whose entries expire after ttl; ttl <= 0 uses
// DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		incidents: expirable.NewLRU[string, incident.Incident](maxIncidents, nil, ttl),
		summaries: expirable.NewLRU[string, []incident.IncidentSummary](1, nil, ttl),
	}
}

// Summaries returns the cached list and whether a fresh entry was present.
func (s *Store) Summaries() ([]incident.IncidentSummary, bool) {
	return s.summaries.Get(summariesKey)
}

func (s *Store) SetSummaries(list []incident.IncidentSummary) {
	s.summaries.Add(summariesKey, list)
}

// Incident returns the cached record and whether a fresh entry was present.
func (s *Store) Incident(id string) (incident.Incident, bool) {
	return s.incidents.Get(id)
}

func (s *Store) SetIncident(i incident.Incident) {
	s.incidents.Add(i.ID, i)
}

// InvalidateIncident drops one record after a mutation touched it.
func (s *Store) InvalidateIncident(id string) {
	s.incidents.Remove(id)
}

// InvalidateSummaries drops the list; any mutation can change it.
func (s *Store) InvalidateSummaries() {
	s.summaries.Remove(summariesKey)
}

// InvalidateAll clears everything.
func (s *Store) InvalidateAll() {
	s.incidents.Purge()
	s.summaries.Purge()
}
