package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/logscope/backend/internal/models"
)

// fakeLLM is a TextGenerator test double. A non-zero delay simulates a slow
// model that honors context cancellation.
type fakeLLM struct {
	response string
	err      error
	delay    time.Duration
	calls    int
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.response, f.err
}

func errorEntry(message, host, timestamp string) models.RawLogEntry {
	return models.RawLogEntry{
		Timestamp: timestamp,
		Message:   message,
		Host:      host,
		Severity:  models.SeverityError,
		Service:   DefaultService,
	}
}

func TestDerivePatternTitle(t *testing.T) {
	tests := []struct {
		message  string
		severity string
		title    string
	}{
		{
			message:  "2024-01-01 10:00:00 ERROR NullPointerException at com.acme.OrderProcessor.process",
			severity: "ERROR",
			title:    "NullPointerException in OrderProcessor",
		},
		{
			message:  "IllegalStateException in OrderService",
			severity: "ERROR",
			title:    "IllegalStateException in OrderService",
		},
		{
			message:  "ConnectionTimeoutError while calling payments",
			severity: "ERROR",
			title:    "ConnectionTimeoutError",
		},
		{
			message:  "2024-01-01 12:00:00 ERROR failed to connect to database. retrying",
			severity: "ERROR",
			title:    "failed to connect to database",
		},
		{
			// Cleaned title shorter than 10 chars falls back to the
			// severity-prefixed form.
			message:  "ERROR disk full",
			severity: "ERROR",
			title:    "ERROR: disk full",
		},
	}

	for _, test := range tests {
		title := derivePatternTitle(test.message, test.severity)
		if title != test.title {
			t.Errorf("For message %q, expected title %q, got %q", test.message, test.title, title)
		}
	}
}

func TestClusterByPatternPartition(t *testing.T) {
	entries := []models.RawLogEntry{
		errorEntry("DatabaseException at com.acme.Pool.acquire", "h1", "2024-01-01T10:00:00Z"),
		errorEntry("DatabaseException at com.acme.Pool.acquire", "h2", "2024-01-01T10:05:00Z"),
		errorEntry("CacheException at com.acme.Cache.get", "h1", "2024-01-01T10:01:00Z"),
		errorEntry("DatabaseException at com.acme.Pool.acquire", "h1", "2024-01-01T09:55:00Z"),
	}

	clusters := ClusterByPattern(entries)

	total := 0
	for _, cluster := range clusters {
		total += cluster.Count
	}
	if total != len(entries) {
		t.Errorf("Expected partition to cover all %d entries, got %d", len(entries), total)
	}
	if len(clusters) != 2 {
		t.Fatalf("Expected 2 clusters, got %d", len(clusters))
	}

	// Count-descending within equal severity
	if clusters[0].Count != 3 || clusters[1].Count != 1 {
		t.Errorf("Expected counts [3 1], got [%d %d]", clusters[0].Count, clusters[1].Count)
	}
	if clusters[0].Title != "DatabaseException in Pool" {
		t.Errorf("Unexpected title %q", clusters[0].Title)
	}

	// Members sorted ascending by timestamp
	if clusters[0].FirstSeen != "2024-01-01T09:55:00Z" || clusters[0].LastSeen != "2024-01-01T10:05:00Z" {
		t.Errorf("Expected firstSeen/lastSeen from member timestamps, got %s / %s", clusters[0].FirstSeen, clusters[0].LastSeen)
	}

	// Hosts deduplicated in first-occurrence order
	if !reflect.DeepEqual(clusters[0].AffectedHosts, []string{"h1", "h2"}) {
		t.Errorf("Expected hosts [h1 h2], got %v", clusters[0].AffectedHosts)
	}
}

func TestClusterByPatternTwoTimestamps(t *testing.T) {
	entries := []models.RawLogEntry{
		errorEntry("TimeoutException at com.acme.Client.call", "h1", "2024-01-01T11:00:00Z"),
		errorEntry("TimeoutException at com.acme.Client.call", "h1", "2024-01-01T10:00:00Z"),
	}

	clusters := ClusterByPattern(entries)
	if len(clusters) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(clusters))
	}
	cluster := clusters[0]
	if cluster.Count != 2 {
		t.Errorf("Expected count 2, got %d", cluster.Count)
	}
	if cluster.FirstSeen != "2024-01-01T10:00:00Z" {
		t.Errorf("Expected firstSeen T1, got %s", cluster.FirstSeen)
	}
	if cluster.LastSeen != "2024-01-01T11:00:00Z" {
		t.Errorf("Expected lastSeen T2, got %s", cluster.LastSeen)
	}
}

func TestClusterByPatternSeveritySort(t *testing.T) {
	entries := []models.RawLogEntry{
		{Timestamp: "2024-01-01T10:00:00Z", Message: "low disk space on data volume", Host: "h1", Severity: models.SeverityWarn},
		errorEntry("DatabaseException at com.acme.Pool.acquire", "h1", "2024-01-01T10:01:00Z"),
		{Timestamp: "2024-01-01T10:02:00Z", Message: "low disk space on data volume", Host: "h2", Severity: models.SeverityWarn},
		{Timestamp: "2024-01-01T10:03:00Z", Message: "low disk space on data volume", Host: "h3", Severity: models.SeverityWarn},
	}

	clusters := ClusterByPattern(entries)
	if len(clusters) != 2 {
		t.Fatalf("Expected 2 clusters, got %d", len(clusters))
	}

	// ERROR outranks WARN even with a lower count
	if clusters[0].Severity != models.SeverityError {
		t.Errorf("Expected ERROR cluster first, got %s", clusters[0].Severity)
	}
	if clusters[1].Severity != models.SeverityWarn || clusters[1].Count != 3 {
		t.Errorf("Expected WARN cluster with count 3 second, got %s/%d", clusters[1].Severity, clusters[1].Count)
	}
}

func TestClusterByPatternSampleLogs(t *testing.T) {
	var entries []models.RawLogEntry
	timestamps := []string{
		"2024-01-01T10:00:00Z",
		"2024-01-01T10:01:00Z",
		"2024-01-01T10:02:00Z",
		"2024-01-01T10:03:00Z",
		"2024-01-01T10:04:00Z",
	}
	for _, ts := range timestamps {
		entries = append(entries, errorEntry("QueueFullException at com.acme.Worker.push", "h1", ts))
	}

	clusters := ClusterByPattern(entries)
	if len(clusters) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(clusters))
	}
	if len(clusters[0].SampleLogs) != 3 {
		t.Errorf("Expected 3 sample logs, got %d", len(clusters[0].SampleLogs))
	}
	if clusters[0].SampleLogs[0].Timestamp != timestamps[0] {
		t.Errorf("Expected samples to start at earliest member, got %s", clusters[0].SampleLogs[0].Timestamp)
	}
}

func TestClusterEntriesAIPath(t *testing.T) {
	entries := []models.RawLogEntry{
		errorEntry("connection refused to db-1", "h1", "2024-01-01T10:05:00Z"),
		errorEntry("connection refused to db-2", "h2", "2024-01-01T10:00:00Z"),
		errorEntry("cache stampede on /products", "h3", "2024-01-01T10:10:00Z"),
	}

	llm := &fakeLLM{response: `Here are the groups:
[
  {"groupTitle": "Database Connection Refused", "logIndices": [0, 1, 0, 99]},
  {"groupTitle": "Cache Stampede", "logIndices": [2]}
]
Hope that helps.`}

	clusters := NewClusterService(llm).ClusterEntries(context.Background(), entries)
	if len(clusters) != 2 {
		t.Fatalf("Expected 2 clusters, got %d", len(clusters))
	}

	first := clusters[0]
	if first.Title != "Database Connection Refused" {
		t.Errorf("Expected count-descending order, got first title %q", first.Title)
	}
	if first.ID != "c1" {
		t.Errorf("Expected id c1 for first emitted group, got %q", first.ID)
	}
	// Duplicate and out-of-bounds indices silently dropped
	if first.Count != 2 {
		t.Errorf("Expected count 2 after dropping bad indices, got %d", first.Count)
	}
	// Members sorted ascending by timestamp
	if first.FirstSeen != "2024-01-01T10:00:00Z" || first.LastSeen != "2024-01-01T10:05:00Z" {
		t.Errorf("Expected timestamp-ordered members, got %s / %s", first.FirstSeen, first.LastSeen)
	}
	// AI-driven clusters always carry ERROR
	if first.Severity != models.SeverityError || clusters[1].Severity != models.SeverityError {
		t.Error("Expected ERROR severity on all AI clusters")
	}
}

func TestClusterEntriesFallsBackToPattern(t *testing.T) {
	entries := []models.RawLogEntry{
		errorEntry("DatabaseException at com.acme.Pool.acquire", "h1", "2024-01-01T10:00:00Z"),
		errorEntry("DatabaseException at com.acme.Pool.acquire", "h2", "2024-01-01T10:05:00Z"),
		errorEntry("CacheException at com.acme.Cache.get", "h1", "2024-01-01T10:01:00Z"),
	}
	want := ClusterByPattern(entries)

	fakes := []*fakeLLM{
		{err: errors.New("connection refused")},
		{response: "I could not find any groups, sorry."},
		{response: "not json at all ["},
		{response: "[]"},
		{response: `[{"groupTitle": "Ghost Group", "logIndices": [42]}]`},
	}

	for i, llm := range fakes {
		got := NewClusterService(llm).ClusterEntries(context.Background(), entries)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Case %d: expected AI failure to match pattern fallback exactly, got %+v", i, got)
		}
	}
}

func TestClusterEntriesEmptyInput(t *testing.T) {
	llm := &fakeLLM{}
	clusters := NewClusterService(llm).ClusterEntries(context.Background(), nil)
	if len(clusters) != 0 {
		t.Errorf("Expected no clusters for empty input, got %d", len(clusters))
	}
	if llm.calls != 0 {
		t.Errorf("Expected no AI call for empty input, got %d", llm.calls)
	}
}
