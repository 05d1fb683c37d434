package services

import (
	"fmt"
	"testing"

	"github.com/logscope/backend/internal/models"
)

func TestCountBySeverity(t *testing.T) {
	entries := []models.RawLogEntry{
		{Severity: models.SeverityError},
		{Severity: models.SeverityWarn},
		{Severity: models.SeverityInfo},
		{Severity: models.SeverityError},
		{Severity: models.SeverityDebug},
		{Severity: models.SeverityWarn},
		{Severity: models.SeverityError},
	}

	stats := CountBySeverity(entries)
	if stats.ErrorCount != 3 {
		t.Errorf("Expected 3 errors, got %d", stats.ErrorCount)
	}
	if stats.WarningCount != 2 {
		t.Errorf("Expected 2 warnings, got %d", stats.WarningCount)
	}
}

func TestCountBySeverityEmpty(t *testing.T) {
	stats := CountBySeverity(nil)
	if stats.ErrorCount != 0 || stats.WarningCount != 0 {
		t.Errorf("Expected zero counts for empty input, got %+v", stats)
	}
}

func TestCountBySeverityLargeSet(t *testing.T) {
	// Large enough to spread across all worker shards.
	var entries []models.RawLogEntry
	for i := 0; i < 10000; i++ {
		switch i % 4 {
		case 0:
			entries = append(entries, models.RawLogEntry{Severity: models.SeverityError})
		case 1:
			entries = append(entries, models.RawLogEntry{Severity: models.SeverityWarn})
		default:
			entries = append(entries, models.RawLogEntry{Severity: models.SeverityInfo})
		}
	}

	stats := CountBySeverity(entries)
	if stats.ErrorCount != 2500 {
		t.Errorf("Expected 2500 errors, got %d", stats.ErrorCount)
	}
	if stats.WarningCount != 2500 {
		t.Errorf("Expected 2500 warnings, got %d", stats.WarningCount)
	}
}

func TestFilterBySeverity(t *testing.T) {
	var entries []models.RawLogEntry
	for i := 0; i < 6; i++ {
		severity := models.SeverityInfo
		if i%2 == 0 {
			severity = models.SeverityError
		}
		entries = append(entries, models.RawLogEntry{
			Message:  fmt.Sprintf("entry %d", i),
			Severity: severity,
		})
	}

	errors := FilterBySeverity(entries, models.SeverityError)
	if len(errors) != 3 {
		t.Fatalf("Expected 3 error entries, got %d", len(errors))
	}
	// Input order preserved
	if errors[0].Message != "entry 0" || errors[2].Message != "entry 4" {
		t.Errorf("Expected order-preserving filter, got %v", errors)
	}
}
