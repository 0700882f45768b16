package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"slices"
	"sync"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.workerCount = workers
	}
}

// WithBatchSize sets the smallest chunk handed to a worker. Lists shorter
// than this are evaluated inline.
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.batchSize = size
	}
}

// ConcurrentEvaluator runs compiled filters over record lists on a worker
// pool.
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
	pool        WorkerPool
}

// batchResult is the outcome of one filter in EvaluateBatch
type batchResult struct {
	FilterName string
	Matches    []int
	Error      error
}

// NewConcurrentEvaluator creates an evaluator backed by a worker pool.
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.batchSize <= 0 {
		e.batchSize = 1
	}

	e.pool = NewWorkerPool(e.workerCount)

	return e
}

// Match returns the indexes of the matching items, in ascending order.
func (e *ConcurrentEvaluator) Match(ctx context.Context, filter CompiledFilter, items []Item) ([]int, error) {
	if len(items) == 0 {
		return []int{}, nil
	}

	if len(items) < e.batchSize || !filter.IsThreadSafe() {
		return matchRange(filter, items, 0), nil
	}

	return e.matchConcurrent(ctx, filter, items)
}

// EvaluateBatch evaluates several filters against the same items
// concurrently. A filter that fails is left out of the result.
func (e *ConcurrentEvaluator) EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, items []Item) (map[string][]int, error) {
	results := make(map[string][]int, len(filters))
	if len(filters) == 0 || len(items) == 0 {
		return results, nil
	}

	resultChan := make(chan batchResult, len(filters))
	var wg sync.WaitGroup
	for name, filter := range filters {
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				resultChan <- batchResult{FilterName: name, Error: err}
				return
			}
			// sequential: the batch already occupies the pool
			resultChan <- batchResult{FilterName: name, Matches: matchRange(filter, items, 0)}
		})
		if err != nil {
			wg.Done()
			return nil, err
		}
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for result := range resultChan {
		if result.Error != nil {
			continue
		}
		results[result.FilterName] = result.Matches
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *ConcurrentEvaluator) matchConcurrent(ctx context.Context, filter CompiledFilter, items []Item) ([]int, error) {
	chunkSize := max(len(items)/max(e.workerCount, 1), e.batchSize)

	type chunkResult struct {
		matches []int
		order   int
	}

	resultChan := make(chan chunkResult, (len(items)/chunkSize)+1)
	var wg sync.WaitGroup

	chunkIndex := 0
	for start := 0; start < len(items); start += chunkSize {
		end := min(start+chunkSize, len(items))

		wg.Add(1)
		chunk := items[start:end]
		offset := start
		index := chunkIndex
		chunkIndex++

		err := e.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			resultChan <- chunkResult{matches: matchRange(filter, chunk, offset), order: index}
		})
		if err != nil {
			wg.Done()
			return nil, err
		}
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([][]int, chunkIndex)
	for result := range resultChan {
		results[result.order] = result.matches
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return slices.Concat(results...), nil
}

// Stop gracefully stops the evaluator's worker pool
func (e *ConcurrentEvaluator) Stop(ctx context.Context) error {
	return e.pool.Stop(ctx)
}

func matchRange(filter CompiledFilter, items []Item, offset int) []int {
	matches := make([]int, 0, len(items)/4)
	for i, item := range items {
		if filter.Evaluate(item) {
			matches = append(matches, offset+i)
		}
	}
	return matches
}

func pick[T any](records []T, indexes []int) []T {
	out := make([]T, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, records[i])
	}
	return out
}

// ToItems converts records to their JSON shape, so a filter sees the same
// keys the API documents.
func ToItems[T any](records []T) ([]Item, error) {
	items := make([]Item, 0, len(records))
	for i, record := range records {
		raw, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
		var item Item
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Apply filters typed records, keeping those whose JSON shape matches.
func Apply[T any](ctx context.Context, e *ConcurrentEvaluator, filter CompiledFilter, records []T) ([]T, error) {
	items, err := ToItems(records)
	if err != nil {
		return nil, err
	}
	indexes, err := e.Match(ctx, filter, items)
	if err != nil {
		return nil, err
	}
	return pick(records, indexes), nil
}
