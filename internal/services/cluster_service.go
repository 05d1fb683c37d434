package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/logscope/backend/internal/logger"
	"github.com/logscope/backend/internal/models"
)

const (
	// clusteringTimeout bounds the AI grouping call. A slow or hung model
	// degrades to the pattern fallback, never stalls the run.
	clusteringTimeout = 60 * time.Second

	// promptMessageMax caps each message rendered into the grouping prompt.
	promptMessageMax = 200

	// sampleLogLimit is how many members a cluster exposes as samples.
	sampleLogLimit = 3

	// Pattern-derived titles shorter than this fall back to a
	// severity-prefixed form.
	minPatternTitleLen = 10
	patternTitleMax    = 50
)

var (
	exceptionPattern = regexp.MustCompile(`(\w+(?:Exception|Error))(?:\s+(?:at|in)\s+([\w.$]+))?`)
	datePattern      = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	timePattern      = regexp.MustCompile(`\d{1,2}:\d{2}:\d{2}`)
)

// TextGenerator is the AI client surface the clustering and summarization
// stages consume. Tests substitute a fake.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClusterService groups error log entries by inferred root cause,
// AI-assisted with a deterministic pattern fallback.
type ClusterService struct {
	llm TextGenerator
}

func NewClusterService(llm TextGenerator) *ClusterService {
	return &ClusterService{llm: llm}
}

// aiGroup is one group object in the assistant's JSON array.
type aiGroup struct {
	GroupTitle string `json:"groupTitle"`
	LogIndices []int  `json:"logIndices"`
}

// ClusterEntries groups the given error entries. The AI path is attempted
// first under a hard timeout; any failure (network, timeout, malformed
// output, empty array) silently degrades to pattern-based grouping.
func (cs *ClusterService) ClusterEntries(ctx context.Context, entries []models.RawLogEntry) []models.ClusterLogEntry {
	if len(entries) == 0 {
		return []models.ClusterLogEntry{}
	}

	clusters, err := cs.clusterWithAI(ctx, entries)
	if err != nil {
		logger.WithComponent("cluster_service").Warnf("AI grouping failed, using pattern fallback: %v", err)
		return ClusterByPattern(entries)
	}
	return clusters
}

func (cs *ClusterService) clusterWithAI(ctx context.Context, entries []models.RawLogEntry) ([]models.ClusterLogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, clusteringTimeout)
	defer cancel()

	prompt := fmt.Sprintf(LOG_GROUPING_PROMPT, renderGroupingDigest(entries))

	response, err := cs.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("grouping call failed: %w", err)
	}

	groups, err := parseGroupArray(response)
	if err != nil {
		return nil, err
	}

	// Groups are resolved in the order the assistant emitted them, so ids
	// are deterministic for identical output. The count sort below does
	// not renumber.
	var clusters []models.ClusterLogEntry
	id := 0
	for _, group := range groups {
		members := resolveIndices(entries, group.LogIndices)
		if len(members) == 0 {
			continue
		}
		sortByTimestamp(members)
		id++
		// Only error logs reach the grouping step, so AI-driven clusters
		// always carry ERROR severity.
		clusters = append(clusters, buildCluster(fmt.Sprintf("c%d", id), group.GroupTitle, models.SeverityError, members))
	}

	if len(clusters) == 0 {
		return nil, fmt.Errorf("assistant returned no resolvable groups")
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Count > clusters[j].Count
	})
	return clusters, nil
}

func renderGroupingDigest(entries []models.RawLogEntry) string {
	var b strings.Builder
	for i, entry := range entries {
		fmt.Fprintf(&b, "%d. [%s] %s (host=%s)\n", i, entry.Timestamp, truncate(entry.Message, promptMessageMax), entry.Host)
	}
	return b.String()
}

// parseGroupArray defensively extracts the JSON array from free-form model
// output: everything outside the first '[' and last ']' is discarded before
// parsing.
func parseGroupArray(response string) ([]aiGroup, error) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array found in response: %q", truncate(response, 120))
	}

	var groups []aiGroup
	if err := json.Unmarshal([]byte(response[start:end+1]), &groups); err != nil {
		return nil, fmt.Errorf("failed to parse group array: %w", err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("assistant returned an empty group array")
	}
	return groups, nil
}

// resolveIndices maps group indices back to entries, silently dropping
// out-of-bounds and duplicate indices.
func resolveIndices(entries []models.RawLogEntry, indices []int) []models.RawLogEntry {
	seen := make(map[int]bool, len(indices))
	var members []models.RawLogEntry
	for _, idx := range indices {
		if idx < 0 || idx >= len(entries) || seen[idx] {
			continue
		}
		seen[idx] = true
		members = append(members, entries[idx])
	}
	return members
}

// ClusterByPattern deterministically groups entries by a title derived from
// the message text. Always available; used directly when the AI path fails
// and exercised on its own for non-AI deployments.
func ClusterByPattern(entries []models.RawLogEntry) []models.ClusterLogEntry {
	if len(entries) == 0 {
		return []models.ClusterLogEntry{}
	}

	groups := make(map[string][]models.RawLogEntry)
	var order []string
	for _, entry := range entries {
		title := derivePatternTitle(entry.Message, entry.Severity)
		if _, ok := groups[title]; !ok {
			order = append(order, title)
		}
		groups[title] = append(groups[title], entry)
	}

	clusters := make([]models.ClusterLogEntry, 0, len(order))
	for i, title := range order {
		members := groups[title]
		sortByTimestamp(members)
		severity := maxSeverity(members)
		clusters = append(clusters, buildCluster(fmt.Sprintf("c%d", i+1), title, severity, members))
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		ri, rj := models.SeverityRank(clusters[i].Severity), models.SeverityRank(clusters[j].Severity)
		if ri != rj {
			return ri > rj
		}
		return clusters[i].Count > clusters[j].Count
	})
	return clusters
}

// derivePatternTitle extracts a root-cause label from one message. Exception
// tokens win; otherwise the message is cleaned of date/time/severity noise
// and truncated.
func derivePatternTitle(message, severity string) string {
	if m := exceptionPattern.FindStringSubmatch(message); m != nil {
		if m[2] != "" {
			return fmt.Sprintf("%s in %s", m[1], locationComponent(m[2]))
		}
		return m[1]
	}

	cleaned := cleanMessage(message)

	title := cleaned
	if dot := strings.Index(title, "."); dot >= 0 {
		title = title[:dot]
	}
	title = strings.TrimSpace(truncate(title, patternTitleMax))

	if len(title) < minPatternTitleLen {
		return fmt.Sprintf("%s: %s", severity, firstWords(cleaned, 5))
	}
	return title
}

// locationComponent picks the class-like segment of a qualified location:
// the last dot-separated segment starting with an uppercase letter, falling
// back to the final segment.
func locationComponent(location string) string {
	segments := strings.Split(location, ".")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "" {
			continue
		}
		if unicode.IsUpper(rune(seg[0])) {
			return seg
		}
	}
	return segments[len(segments)-1]
}

func cleanMessage(message string) string {
	cleaned := datePattern.ReplaceAllString(message, "")
	cleaned = timePattern.ReplaceAllString(cleaned, "")
	cleaned = severityPattern.ReplaceAllString(cleaned, "")
	return strings.Join(strings.Fields(cleaned), " ")
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func sortByTimestamp(entries []models.RawLogEntry) {
	// RFC3339 UTC timestamps sort chronologically as strings.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp < entries[j].Timestamp
	})
}

func maxSeverity(entries []models.RawLogEntry) string {
	best := entries[0].Severity
	for _, entry := range entries[1:] {
		if models.SeverityRank(entry.Severity) > models.SeverityRank(best) {
			best = entry.Severity
		}
	}
	return best
}

// buildCluster assembles the response shape shared by both grouping paths.
// Members must already be sorted ascending by timestamp.
func buildCluster(id, title, severity string, members []models.RawLogEntry) models.ClusterLogEntry {
	hosts := dedupeNonEmpty(members, func(e models.RawLogEntry) string { return e.Host })
	svcs := dedupeNonEmpty(members, func(e models.RawLogEntry) string { return e.Service })

	samples := make([]models.SampleLog, 0, sampleLogLimit)
	for _, m := range members {
		if len(samples) == sampleLogLimit {
			break
		}
		samples = append(samples, models.SampleLog{
			Timestamp: m.Timestamp,
			Message:   m.Message,
			Host:      m.Host,
			RequestID: m.RequestID,
		})
	}

	return models.ClusterLogEntry{
		ID:               id,
		Title:            title,
		Count:            len(members),
		FirstSeen:        members[0].Timestamp,
		LastSeen:         members[len(members)-1].Timestamp,
		AffectedHosts:    hosts,
		AffectedServices: svcs,
		SampleLogs:       samples,
		Severity:         severity,
	}
}

// dedupeNonEmpty collects distinct non-empty values in order of first
// occurrence.
func dedupeNonEmpty(entries []models.RawLogEntry, key func(models.RawLogEntry) string) []string {
	seen := make(map[string]bool)
	values := []string{}
	for _, entry := range entries {
		v := key(entry)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}
