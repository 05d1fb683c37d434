package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/logscope/backend/internal/logger"
	"github.com/logscope/backend/internal/models"
)

const (
	// summarizationTimeout caps how long the final response waits on the AI
	// digest. On expiry the in-flight call is abandoned and the templated
	// fallback is used immediately.
	summarizationTimeout = 5 * time.Second

	summaryMaxLen     = 300
	summaryTopCluster = 5
)

// SummaryService produces a short narrative over a run's clusters,
// AI-assisted with a deterministic textual fallback.
type SummaryService struct {
	llm TextGenerator
}

func NewSummaryService(llm TextGenerator) *SummaryService {
	return &SummaryService{llm: llm}
}

// Summarize never fails; it returns the AI digest when the model answers in
// time and the templated fallback otherwise.
func (ss *SummaryService) Summarize(ctx context.Context, clusters []models.ClusterLogEntry, source string) string {
	if len(clusters) == 0 {
		return EmptyWindowSummary(source)
	}

	ctx, cancel := context.WithTimeout(ctx, summarizationTimeout)
	defer cancel()

	prompt := fmt.Sprintf(CLUSTER_SUMMARY_PROMPT, source, renderClusterDigest(clusters))

	response, err := ss.llm.Generate(ctx, prompt)
	if err != nil {
		logger.WithComponent("summary_service").Warnf("AI summary failed, using template: %v", err)
		return FallbackSummary(clusters, source)
	}

	summary := strings.TrimSpace(response)
	if summary == "" {
		return FallbackSummary(clusters, source)
	}
	if len(summary) > summaryMaxLen {
		summary = summary[:summaryMaxLen] + "..."
	}
	return summary
}

func renderClusterDigest(clusters []models.ClusterLogEntry) string {
	top := clusters
	if len(top) > summaryTopCluster {
		top = top[:summaryTopCluster]
	}
	var b strings.Builder
	for _, cluster := range top {
		fmt.Fprintf(&b, "- [%s] %s (%d occurrences)\n", cluster.Severity, cluster.Title, cluster.Count)
	}
	return b.String()
}

// EmptyWindowSummary is the fixed sentence returned when the window holds no
// logs at all.
func EmptyWindowSummary(source string) string {
	return fmt.Sprintf("No logs found in %s for the last %s.", source, TimeRangeLabel)
}

// FallbackSummary is the deterministic digest used whenever the AI summary
// is unavailable.
func FallbackSummary(clusters []models.ClusterLogEntry, source string) string {
	errorPatterns := 0
	warningPatterns := 0
	for _, cluster := range clusters {
		switch cluster.Severity {
		case models.SeverityError:
			errorPatterns++
		case models.SeverityWarn:
			warningPatterns++
		}
	}
	return fmt.Sprintf("%d error patterns and %d warning patterns found across %d streams in the source %s.",
		errorPatterns, warningPatterns, streamLimit, source)
}
