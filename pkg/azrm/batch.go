package azrm

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fivetwenty-io/azrm/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrNoQueryFunc = errors.New("batch query has no Run function")
)

// BatchQuery is one independent query of a batch.
type BatchQuery struct {
	ID       string
	Run      func(ctx context.Context) (any, error)
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch query.
type BatchResult struct {
	ID       string
	Success  bool
	Data     any
	Error    error
	Duration time.Duration
}

// BatchExecutor runs independent queries concurrently.
type BatchExecutor struct {
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the per query timeout. Zero disables it.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs every query and returns results in input order. A failing
// query does not cancel the others; its error is kept in its result. The
// returned error is only set when ctx ends before all queries started.
func (b *BatchExecutor) Execute(ctx context.Context, queries []BatchQuery) ([]BatchResult, error) {
	results := make([]BatchResult, len(queries))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(b.concurrency)

	for index, query := range queries {
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func() error {
			result := b.run(groupCtx, query)
			results[index] = *result

			if query.Callback != nil {
				query.Callback(result)
			}

			return nil
		})
	}

	_ = group.Wait()

	return results, ctx.Err()
}

func (b *BatchExecutor) run(ctx context.Context, query BatchQuery) *BatchResult {
	result := &BatchResult{ID: query.ID}

	if query.Run == nil {
		result.Error = ErrNoQueryFunc

		return result
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := time.Now()
	result.Data, result.Error = query.Run(ctx)
	result.Duration = time.Since(start)
	result.Success = result.Error == nil

	return result
}

// RunBatch runs queries with at most limit in flight.
func RunBatch(ctx context.Context, limit int, queries ...BatchQuery) ([]BatchResult, error) {
	return NewBatchExecutor(limit).Execute(ctx, queries)
}
