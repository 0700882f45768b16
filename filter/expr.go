package filter

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// timestamp layouts MailerLite uses for created_at and friends
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	custom     map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
		maps.Copy(c.custom, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
		custom:      make(map[string]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type exprCompiler struct {
	helperFuncs map[string]any
	custom      map[string]any
	cache       *lruCache[CompiledFilter]
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// record keys are only known at run time
	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		custom:     c.custom,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate runs the filter against one record. A record the expression
// cannot be evaluated on (missing key compared to a number, wrong type)
// does not match.
func (f *exprFilter) Evaluate(item Item) bool {
	env := createRuntimeEnvironment(item)
	maps.Copy(env, f.custom)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false
	}
	return result.(bool)
}

func (f *exprFilter) Expression() string { return f.expression }
func (f *exprFilter) IsThreadSafe() bool { return true }

func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 24)
	addHelperFunctions(funcs)

	// typed placeholders so the compiler knows the record helpers exist
	funcs["Item"] = Item{}
	funcs["inGroup"] = func(string) bool { return false }
	funcs["hasField"] = func(string) bool { return false }
	funcs["field"] = func(string) any { return nil }
	funcs["emailDomain"] = func() string { return "" }
	return funcs
}

func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["parseDate"] = parseTime
	env["daysSince"] = func(v any) int {
		t := parseTime(v)
		if t.IsZero() {
			return -1
		}
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["before"] = func(v any, t time.Time) bool {
		parsed := parseTime(v)
		return !parsed.IsZero() && parsed.Before(t)
	}
	env["after"] = func(v any, t time.Time) bool {
		parsed := parseTime(v)
		return !parsed.IsZero() && parsed.After(t)
	}
	// String helpers
	env["icontains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["istartsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["iendsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}

// parseTime accepts a time.Time or one of the API's timestamp strings. It
// returns the zero time for anything else.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

// createRuntimeEnvironment exposes every key of the record as a variable,
// plus the helpers. Helpers win on a name clash; the record stays reachable
// as Item.
func createRuntimeEnvironment(item Item) map[string]any {
	env := make(map[string]any, len(item)+24)
	maps.Copy(env, item)
	addHelperFunctions(env)

	env["Item"] = item
	env["inGroup"] = createInGroupFunc(item["groups"])
	env["hasField"] = createHasFieldFunc(item["fields"])
	env["field"] = createFieldFunc(item["fields"])
	env["emailDomain"] = createEmailDomainFunc(item["email"])

	return env
}

// createInGroupFunc matches a group by id or, case-insensitively, by name.
func createInGroupFunc(groups any) func(string) bool {
	list, _ := groups.([]any)
	return func(ref string) bool {
		for _, g := range list {
			switch group := g.(type) {
			case map[string]any:
				if fmt.Sprint(group["id"]) == ref {
					return true
				}
				if name, ok := group["name"].(string); ok && strings.EqualFold(name, ref) {
					return true
				}
			case string:
				if strings.EqualFold(group, ref) {
					return true
				}
			}
		}
		return false
	}
}

func createHasFieldFunc(fields any) func(string) bool {
	values, _ := fields.(map[string]any)
	return func(key string) bool {
		v, ok := values[key]
		return ok && v != nil && v != ""
	}
}

func createFieldFunc(fields any) func(string) any {
	values, _ := fields.(map[string]any)
	return func(key string) any {
		return values[key]
	}
}

func createEmailDomainFunc(email any) func() string {
	address, _ := email.(string)
	_, domain, _ := strings.Cut(address, "@")
	domain = strings.ToLower(domain)
	return func() string {
		return domain
	}
}
