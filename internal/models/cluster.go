package models

// Severity levels as they appear in raw log messages.
const (
	SeverityError = "ERROR"
	SeverityWarn  = "WARN"
	SeverityInfo  = "INFO"
	SeverityDebug = "DEBUG"
)

// SeverityRank orders severities by criticality for cluster sorting.
func SeverityRank(severity string) int {
	switch severity {
	case SeverityError:
		return 3
	case SeverityWarn:
		return 2
	case SeverityInfo:
		return 1
	case SeverityDebug:
		return 0
	default:
		return 0
	}
}

// RawLogEntry is one normalized log occurrence pulled from the log store.
// It is immutable once constructed and private to a single pipeline run.
type RawLogEntry struct {
	Timestamp string `json:"timestamp"` // ISO-8601, UTC
	Message   string `json:"message"`
	Host      string `json:"host"`
	Severity  string `json:"severity"`
	Service   string `json:"service"`
	RequestID string `json:"requestId,omitempty"`
}

// SampleLog is the rendered shape of a cluster member shown to callers.
type SampleLog struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Host      string `json:"host"`
	RequestID string `json:"requestId,omitempty"`
}

// ClusterLogEntry is a named group of related log occurrences.
type ClusterLogEntry struct {
	ID               string      `json:"id"` // run-scoped, e.g. "c1"
	Title            string      `json:"title"`
	Count            int         `json:"count"`
	FirstSeen        string      `json:"firstSeen"`
	LastSeen         string      `json:"lastSeen"`
	AffectedHosts    []string    `json:"affectedHosts"`
	AffectedServices []string    `json:"affectedServices"`
	SampleLogs       []SampleLog `json:"sampleLogs"`
	Severity         string      `json:"severity"`
}

// LogStatistics holds severity counts across the entire fetched set.
type LogStatistics struct {
	ErrorCount   int `json:"errorCount"`
	WarningCount int `json:"warningCount"`
}

// ClusterLogsResponse is the final artifact of one pipeline run. It is
// assembled fresh per invocation and never persisted.
type ClusterLogsResponse struct {
	Clusters      []ClusterLogEntry `json:"clusters"`
	Summary       string            `json:"summary"`
	TotalLogs     int               `json:"totalLogs"`
	TotalErrors   int               `json:"totalErrors"`
	TotalWarnings int               `json:"totalWarnings"`
	Source        string            `json:"source"`
	TimeRange     string            `json:"timeRange"`
}
