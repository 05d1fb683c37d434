package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/logscope/backend/internal/logger"
)

const (
	// maxFetchPages bounds the worst-case cost of one pipeline run.
	maxFetchPages = 20
	// eventsPerPage is the page size requested from CloudWatch.
	eventsPerPage = 10000
	// streamLimit is the number of streams a run is considered to cover;
	// referenced by the fallback summary text.
	streamLimit = 50
)

// LogEventsAPI is the slice of the CloudWatch Logs client the pipeline
// consumes. Tests substitute a fake.
type LogEventsAPI interface {
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// LogStoreService pages raw events out of CloudWatch Logs for a time range.
// One instance is shared process-wide; it holds no per-run state.
type LogStoreService struct {
	client LogEventsAPI
}

func NewLogStoreService(ctx context.Context) (*LogStoreService, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	var cfg aws.Config
	var err error
	if accessKey := os.Getenv("AWS_ACCESS_KEY_ID"); accessKey != "" && os.Getenv("AWS_SECRET_ACCESS_KEY") != "" {
		cfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, os.Getenv("AWS_SECRET_ACCESS_KEY"), "")),
		)
	} else {
		cfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(region))
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &LogStoreService{client: cloudwatchlogs.NewFromConfig(cfg)}, nil
}

// NewLogStoreServiceWithClient wires an explicit client (used by tests).
func NewLogStoreServiceWithClient(client LogEventsAPI) *LogStoreService {
	return &LogStoreService{client: client}
}

// FetchWindow pages through all events of a log group for [start, end],
// stopping early when no continuation token is returned or the page budget
// is exhausted. The page loop is sequential: each request's token depends
// on the previous response.
func (s *LogStoreService) FetchWindow(ctx context.Context, logGroup string, start, end time.Time) ([]types.FilteredLogEvent, error) {
	log := logger.WithPipeline(logGroup)

	var events []types.FilteredLogEvent
	var nextToken *string

	for page := 0; page < maxFetchPages; page++ {
		input := &cloudwatchlogs.FilterLogEventsInput{
			LogGroupName: aws.String(logGroup),
			StartTime:    aws.Int64(start.UnixMilli()),
			EndTime:      aws.Int64(end.UnixMilli()),
			Limit:        aws.Int32(eventsPerPage),
			NextToken:    nextToken,
		}

		out, err := s.client.FilterLogEvents(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("filter log events (page %d): %w", page+1, err)
		}

		events = append(events, out.Events...)
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	log.Debugf("Fetched %d events from %s", len(events), logGroup)
	return events, nil
}
