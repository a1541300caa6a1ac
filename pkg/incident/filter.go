package incident

import "strings"

// FilterAll is the sentinel disabling the status or severity predicate.
const FilterAll = "all"

// Filter holds the three list predicates: free-text search over
// title/summary/tags, exact status, and case-insensitive severity. The
// predicates are independent and conjunctive, so applying them in any order
// yields the same result.
type Filter struct {
	Query    string
	Status   string
	Severity string
}

// Match reports whether a summary passes all active predicates.
func (f Filter) Match(s IncidentSummary) bool {
	return f.matchQuery(s) && f.matchStatus(s) && f.matchSeverity(s)
}

// Apply filters a fetched summary list. It is a pure recomputation: the
// input is never mutated and no fetch is triggered.
func (f Filter) Apply(list []IncidentSummary) []IncidentSummary {
	out := make([]IncidentSummary, 0, len(list))
	for _, s := range list {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// Active reports whether any predicate is narrowing the list.
func (f Filter) Active() bool {
	return f.Query != "" ||
		(f.Status != "" && f.Status != FilterAll) ||
		(f.Severity != "" && f.Severity != FilterAll)
}

func (f Filter) matchQuery(s IncidentSummary) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(s.Title), q) || strings.Contains(strings.ToLower(s.Summary), q) {
		return true
	}
	for _, tag := range s.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func (f Filter) matchStatus(s IncidentSummary) bool {
	if f.Status == "" || f.Status == FilterAll {
		return true
	}
	return string(s.Status) == f.Status
}

func (f Filter) matchSeverity(s IncidentSummary) bool {
	if f.Severity == "" || f.Severity == FilterAll {
		return true
	}
	return s.Severity.Equals(f.Severity)
}

// CountByStatus tallies an unfiltered summary list for the header line.
func CountByStatus(list []IncidentSummary) map[Status]int {
	counts := make(map[Status]int)
	for _, s := range list {
		counts[s.Status]++
	}
	return counts
}
