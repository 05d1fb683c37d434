package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/logscope/backend/internal/models"
)

const (
	// DefaultService is used when no service token can be found in a message.
	DefaultService = "platform"

	// emptyMessagePlaceholder replaces blank event bodies so that a
	// RawLogEntry message is never empty.
	emptyMessagePlaceholder = "[no message]"

	hostMaxLen = 20
)

// Compiled once at process start and shared across runs.
var (
	severityPattern  = regexp.MustCompile(`(?i)\b(ERROR|WARN|INFO|DEBUG)\b`)
	servicePattern   = regexp.MustCompile(`(?i)\b(?:service|application)=([\w.-]+)`)
	requestIDPattern = regexp.MustCompile(`(?i)\b(?:requestId|traceId|trace-id|request-id|req)=([\w-]+)`)
)

// ExtractEntry turns one raw log line and its source stream into a
// structured RawLogEntry. It never fails: unmatched fields take documented
// defaults.
func ExtractEntry(message, streamName string, timestamp time.Time) models.RawLogEntry {
	if strings.TrimSpace(message) == "" {
		message = emptyMessagePlaceholder
	}

	return models.RawLogEntry{
		Timestamp: timestamp.UTC().Format(time.RFC3339),
		Message:   message,
		Host:      extractHost(streamName),
		Severity:  extractSeverity(message),
		Service:   extractService(message),
		RequestID: extractRequestID(message),
	}
}

// extractSeverity finds the first whole-word severity in the message. Lines
// without one are classified ERROR when they mention an exception or error,
// otherwise INFO.
func extractSeverity(message string) string {
	if m := severityPattern.FindString(message); m != "" {
		return strings.ToUpper(m)
	}
	lower := strings.ToLower(message)
	if strings.Contains(lower, "exception") || strings.Contains(lower, "error") {
		return models.SeverityError
	}
	return models.SeverityInfo
}

// extractHost derives a host label from a log stream name. CloudWatch agent
// streams embed the instance as "ip-10-0-1-23"; anything else is used as-is,
// truncated.
func extractHost(streamName string) string {
	if idx := strings.Index(streamName, "ip-"); idx >= 0 {
		rest := streamName[idx:]
		if slash := strings.Index(rest, "/"); slash >= 0 {
			return rest[:slash]
		}
		return truncate(rest, hostMaxLen)
	}
	return truncate(streamName, hostMaxLen)
}

func extractService(message string) string {
	if m := servicePattern.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return DefaultService
}

func extractRequestID(message string) string {
	if m := requestIDPattern.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
