package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// fakeLogEvents serves scripted pages and records the tokens it was asked for.
type fakeLogEvents struct {
	pages      []*cloudwatchlogs.FilterLogEventsOutput
	err        error
	calls      int
	seenTokens []*string
}

func (f *fakeLogEvents) FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error) {
	f.seenTokens = append(f.seenTokens, params.NextToken)
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func makeEvents(n int, prefix string) []types.FilteredLogEvent {
	events := make([]types.FilteredLogEvent, n)
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).UnixMilli()
	for i := range events {
		events[i] = types.FilteredLogEvent{
			Message:       aws.String(fmt.Sprintf("%s message %d", prefix, i)),
			LogStreamName: aws.String("app/ip-10-0-0-1/c"),
			Timestamp:     aws.Int64(base + int64(i)*1000),
		}
	}
	return events
}

func TestFetchWindowSinglePage(t *testing.T) {
	fake := &fakeLogEvents{pages: []*cloudwatchlogs.FilterLogEventsOutput{
		{Events: makeEvents(3, "INFO")},
	}}
	store := NewLogStoreServiceWithClient(fake)

	events, err := store.FetchWindow(context.Background(), "/aws/app/api", time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("Expected 3 events, got %d", len(events))
	}
	if fake.calls != 1 {
		t.Errorf("Expected 1 request when no continuation token, got %d", fake.calls)
	}
	if fake.seenTokens[0] != nil {
		t.Error("Expected first request without a token")
	}
}

func TestFetchWindowFollowsTokens(t *testing.T) {
	fake := &fakeLogEvents{pages: []*cloudwatchlogs.FilterLogEventsOutput{
		{Events: makeEvents(2, "ERROR"), NextToken: aws.String("t1")},
		{Events: makeEvents(2, "WARN"), NextToken: aws.String("t2")},
		{Events: makeEvents(1, "INFO")},
	}}
	store := NewLogStoreServiceWithClient(fake)

	events, err := store.FetchWindow(context.Background(), "/aws/app/api", time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(events) != 5 {
		t.Errorf("Expected events from all pages, got %d", len(events))
	}
	if fake.calls != 3 {
		t.Errorf("Expected 3 sequential requests, got %d", fake.calls)
	}
	if aws.ToString(fake.seenTokens[1]) != "t1" || aws.ToString(fake.seenTokens[2]) != "t2" {
		t.Errorf("Expected tokens threaded through requests, got %v", fake.seenTokens)
	}
}

func TestFetchWindowPageBudget(t *testing.T) {
	// Every page claims more data; the loop must stop at the budget anyway.
	var pages []*cloudwatchlogs.FilterLogEventsOutput
	for i := 0; i < maxFetchPages+5; i++ {
		pages = append(pages, &cloudwatchlogs.FilterLogEventsOutput{
			Events:    makeEvents(1, "INFO"),
			NextToken: aws.String(fmt.Sprintf("t%d", i)),
		})
	}
	fake := &fakeLogEvents{pages: pages}
	store := NewLogStoreServiceWithClient(fake)

	events, err := store.FetchWindow(context.Background(), "/aws/app/api", time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fake.calls != maxFetchPages {
		t.Errorf("Expected exactly %d requests, got %d", maxFetchPages, fake.calls)
	}
	if len(events) != maxFetchPages {
		t.Errorf("Expected %d events, got %d", maxFetchPages, len(events))
	}
}

func TestFetchWindowError(t *testing.T) {
	fake := &fakeLogEvents{err: errors.New("throttled")}
	store := NewLogStoreServiceWithClient(fake)

	_, err := store.FetchWindow(context.Background(), "/aws/app/api", time.Now().Add(-time.Hour), time.Now())
	if err == nil {
		t.Fatal("Expected error to propagate")
	}
	if !errors.Is(err, fake.err) {
		t.Errorf("Expected wrapped source error, got %v", err)
	}
}
