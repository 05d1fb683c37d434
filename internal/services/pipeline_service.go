package services

import (
	"context"
	"runtime"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/logscope/backend/internal/logger"
	"github.com/logscope/backend/internal/models"
)

const (
	// LookbackWindow is the fixed fetch window of one pipeline run.
	LookbackWindow = 6 * time.Hour

	// TimeRangeLabel is the window label carried on every response.
	TimeRangeLabel = "6h"
)

// PipelineService wires fetch, extraction, statistics, clustering and
// summarization into the end-to-end GetClusterLogs operation. It owns the
// timing budgets and the final response assembly.
type PipelineService struct {
	logStore *LogStoreService
	clusters *ClusterService
	summary  *SummaryService
}

func NewPipelineService(logStore *LogStoreService, llm TextGenerator) *PipelineService {
	return &PipelineService{
		logStore: logStore,
		clusters: NewClusterService(llm),
		summary:  NewSummaryService(llm),
	}
}

// GetClusterLogs runs the full pipeline for one log group. It never fails:
// any error or panic anywhere in the run is logged and degrades to the
// empty-result response.
func (ps *PipelineService) GetClusterLogs(ctx context.Context, logGroup string) (response models.ClusterLogsResponse) {
	runID := uuid.NewString()
	log := logger.WithPipeline(logGroup).WithField("run_id", runID)

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Pipeline run panicked: %v", r)
			response = ps.emptyResponse(logGroup)
		}
	}()

	end := time.Now()
	start := end.Add(-LookbackWindow)

	events, err := ps.logStore.FetchWindow(ctx, logGroup, start, end)
	if err != nil {
		log.Errorf("Log fetch failed: %v", err)
		return ps.emptyResponse(logGroup)
	}
	if len(events) == 0 {
		log.Info("No events in window, returning empty report")
		return ps.emptyResponse(logGroup)
	}

	entries := extractAll(events)

	// Statistics and clustering are independent; run them in parallel.
	var stats models.LogStatistics
	var clusters []models.ClusterLogEntry

	var g errgroup.Group
	g.Go(func() error {
		stats = CountBySeverity(entries)
		return nil
	})
	g.Go(func() error {
		clusters = ps.clusters.ClusterEntries(ctx, FilterBySeverity(entries, models.SeverityError))
		return nil
	})
	g.Wait()

	summary := ps.summary.Summarize(ctx, clusters, logGroup)

	log.Infof("Pipeline run completed: %d logs, %d errors, %d clusters", len(entries), stats.ErrorCount, len(clusters))

	return models.ClusterLogsResponse{
		Clusters:      clusters,
		Summary:       summary,
		TotalLogs:     len(entries),
		TotalErrors:   stats.ErrorCount,
		TotalWarnings: stats.WarningCount,
		Source:        logGroup,
		TimeRange:     TimeRangeLabel,
	}
}

func (ps *PipelineService) emptyResponse(logGroup string) models.ClusterLogsResponse {
	return models.ClusterLogsResponse{
		Clusters:  []models.ClusterLogEntry{},
		Summary:   EmptyWindowSummary(logGroup),
		Source:    logGroup,
		TimeRange: TimeRangeLabel,
	}
}

// extractAll runs field extraction over a page of events in parallel.
// Workers write disjoint index ranges of the result, so input order is
// preserved without locking.
func extractAll(events []types.FilteredLogEvent) []models.RawLogEntry {
	entries := make([]models.RawLogEntry, len(events))

	workers := runtime.NumCPU()
	if workers > len(events) {
		workers = len(events)
	}
	chunk := (len(events) + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(events) {
			break
		}
		end := start + chunk
		if end > len(events) {
			end = len(events)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				event := events[i]
				entries[i] = ExtractEntry(
					aws.ToString(event.Message),
					aws.ToString(event.LogStreamName),
					time.UnixMilli(aws.ToInt64(event.Timestamp)),
				)
			}
			return nil
		})
	}
	g.Wait()

	return entries
}
