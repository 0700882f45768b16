package filter

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Manager keeps the named filters from the configuration and evaluates
// them, or ad-hoc expressions, against listed records.
type Manager struct {
	compiler  Compiler
	evaluator *ConcurrentEvaluator
	filters   map[string]CompiledFilter
	logger    zerolog.Logger
	mu        sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// WithEvaluator sets a custom evaluator
func WithEvaluator(evaluator *ConcurrentEvaluator) ManagerOption {
	return func(m *Manager) {
		m.evaluator = evaluator
	}
}

// WithLogger sets the logger used for registration and selection.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		filters: make(map[string]CompiledFilter),
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.compiler == nil {
		m.compiler = NewExprCompiler(WithCache(100))
	}
	if m.evaluator == nil {
		m.evaluator = NewConcurrentEvaluator()
	}

	return m
}

// RegisterFilter registers a new filter or updates an existing one
func (m *Manager) RegisterFilter(name, expression string) error {
	filter, err := m.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile filter '%s': %w", name, err)
	}

	m.mu.Lock()
	m.filters[name] = filter
	m.mu.Unlock()

	return nil
}

// RegisterFilters registers multiple filters at once. Nothing is
// registered unless every expression compiles.
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(filters))

	for _, name := range slices.Sorted(maps.Keys(filters)) {
		filter, err := m.compiler.Compile(filters[name])
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()

	m.logger.Debug().Int("count", len(compiled)).Msg("Registered filters")
	return nil
}

// GetFilter returns a compiled filter by name
func (m *Manager) GetFilter(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	filter, exists := m.filters[name]
	m.mu.RUnlock()
	return filter, exists
}

// ListFilters returns the registered filter names, sorted
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.filters))
}

// Resolve returns the registered filter called ref, or compiles ref as an
// expression when no filter has that name.
func (m *Manager) Resolve(ref string) (CompiledFilter, error) {
	if filter, ok := m.GetFilter(ref); ok {
		return filter, nil
	}
	return m.compiler.Compile(ref)
}

// EvaluateAll evaluates every registered filter and returns the matching
// indexes per filter name
func (m *Manager) EvaluateAll(ctx context.Context, items []Item) (map[string][]int, error) {
	m.mu.RLock()
	filters := maps.Clone(m.filters)
	m.mu.RUnlock()

	return m.evaluator.EvaluateBatch(ctx, filters, items)
}

// EvaluateSelected evaluates only the named filters
func (m *Manager) EvaluateSelected(ctx context.Context, names []string, items []Item) (map[string][]int, error) {
	m.mu.RLock()
	filters := make(map[string]CompiledFilter, len(names))
	for _, name := range names {
		filter, exists := m.filters[name]
		if !exists {
			m.mu.RUnlock()
			return nil, &UnknownFilterError{Name: name}
		}
		filters[name] = filter
	}
	m.mu.RUnlock()

	return m.evaluator.EvaluateBatch(ctx, filters, items)
}

// Close gracefully shuts down the manager
func (m *Manager) Close(ctx context.Context) error {
	return m.evaluator.Stop(ctx)
}

// Select filters typed records with the filter or expression ref.
func Select[T any](ctx context.Context, m *Manager, ref string, records []T) ([]T, error) {
	filter, err := m.Resolve(ref)
	if err != nil {
		return nil, err
	}
	m.logger.Debug().Str("filter", filter.Expression()).Int("records", len(records)).Msg("Applying filter")
	return Apply(ctx, m.evaluator, filter, records)
}
