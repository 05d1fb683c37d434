package services

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/logscope/backend/internal/models"
)

// CountBySeverity tallies ERROR and WARN occurrences across the full entry
// set. The slice is split into per-worker shards; each worker accumulates
// its own partial counts which are merged afterwards, so no shared counter
// is ever locked.
func CountBySeverity(entries []models.RawLogEntry) models.LogStatistics {
	if len(entries) == 0 {
		return models.LogStatistics{}
	}

	workers := runtime.NumCPU()
	if workers > len(entries) {
		workers = len(entries)
	}

	partials := make([]models.LogStatistics, workers)
	chunk := (len(entries) + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(entries) {
			break
		}
		end := start + chunk
		if end > len(entries) {
			end = len(entries)
		}
		shard := entries[start:end]
		partial := &partials[w]
		g.Go(func() error {
			for _, entry := range shard {
				switch entry.Severity {
				case models.SeverityError:
					partial.ErrorCount++
				case models.SeverityWarn:
					partial.WarningCount++
				}
			}
			return nil
		})
	}
	g.Wait()

	var stats models.LogStatistics
	for _, p := range partials {
		stats.ErrorCount += p.ErrorCount
		stats.WarningCount += p.WarningCount
	}
	return stats
}

// FilterBySeverity returns the subset of entries carrying the given
// severity, preserving input order.
func FilterBySeverity(entries []models.RawLogEntry, severity string) []models.RawLogEntry {
	var filtered []models.RawLogEntry
	for _, entry := range entries {
		if entry.Severity == severity {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
