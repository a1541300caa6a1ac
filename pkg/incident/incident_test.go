package incident

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusDisplay(t *testing.T) {
	assert.Equal(t, "OPEN", StatusOpen.Display())
	assert.Equal(t, "IN PROGRESS", StatusInProgress.Display())
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, Status("ARCHIVED").IsValid())
	assert.False(t, Status("open").IsValid())
}

func TestSeverityEquals(t *testing.T) {
	assert.True(t, SeverityHigh.Equals("high"))
	assert.True(t, SeverityHigh.Equals("HIGH"))
	assert.False(t, SeverityHigh.Equals("critical"))

	// The scale is open-ended; arbitrary stored values still compare
	assert.True(t, Severity("Sev1").Equals("sev1"))
}

func TestFeed(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	i := Incident{
		Timeline: []TimelineEvent{
			{ID: "e1", Timestamp: base, Description: "Incident created", Actor: "amy"},
			{ID: "e2", Timestamp: base.Add(2 * time.Hour), Description: "failover started", Actor: "amy"},
		},
		Notes: []Note{
			{ID: "n1", Timestamp: base.Add(time.Hour), Author: "bob", Note: "checked dashboards"},
			{ID: "n2", Timestamp: base.Add(3 * time.Hour), Author: "bob", Note: "all clear"},
		},
	}

	feed := Feed(i)

	assert.Len(t, feed, 4)
	// Newest first, events and notes interleaved
	assert.Equal(t, []string{"n2", "e2", "n1", "e1"}, []string{feed[0].ID, feed[1].ID, feed[2].ID, feed[3].ID})
	assert.Equal(t, FeedNote, feed[0].Kind)
	assert.Equal(t, FeedEvent, feed[1].Kind)
	assert.Equal(t, "all clear", feed[0].Text)
	assert.Equal(t, "bob", feed[0].Actor)
}

func TestFeedEmpty(t *testing.T) {
	assert.Empty(t, Feed(Incident{}))
}

func TestAddTag(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		tag  string
		want []string
	}{
		{name: "appends new tag", tags: []string{"db"}, tag: "api", want: []string{"db", "api"}},
		{name: "exact duplicate is a no-op", tags: []string{"db"}, tag: "db", want: []string{"db"}},
		{name: "case differs so both kept", tags: []string{"db"}, tag: "DB", want: []string{"db", "DB"}},
		{name: "blank tag ignored", tags: []string{"db"}, tag: "  ", want: []string{"db"}},
		{name: "tag is trimmed", tags: nil, tag: " db ", want: []string{"db"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddTag(tt.tags, tt.tag))
		})
	}
}

func TestDedupTags(t *testing.T) {
	assert.Equal(t, []string{"db", "api"}, DedupTags([]string{"db", "api", "db", ""}))
	assert.Empty(t, DedupTags(nil))
}
