package filter

import (
	"context"
)

// Item is one listed record in its JSON shape: snake_case keys, numbers as
// float64, nested objects as maps.
type Item = map[string]any

// Filter decides whether a record matches
type Filter interface {
	// Evaluate checks if an item matches the filter criteria
	Evaluate(item Item) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string

	// IsThreadSafe indicates if the filter can be evaluated concurrently
	IsThreadSafe() bool
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// WorkerPool defines the interface for concurrent work execution
type WorkerPool interface {
	// Submit submits work to the pool
	Submit(work func()) error

	// Stop gracefully stops the worker pool
	Stop(ctx context.Context) error
}
