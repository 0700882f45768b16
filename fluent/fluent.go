// Package fluent resolves natural-language chained calls such as
// "andNamed" or "thenStart" against an explicit table of builder methods.
package fluent

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/s0up4200/mailkit/errs"
)

// Method applies one chained call to a builder.
type Method[B any] func(b B, args []any) error

// Table maps canonical method names ("named", "toGroup") to their setters.
type Table[B any] map[string]Method[B]

// Resolve strips the first matching prefix from name and lower-cases the
// letter that follows it: Resolve("andNamed", "and") is ("named", true).
// The prefix must be followed by an upper-case letter.
func Resolve(name string, prefixes ...string) (string, bool) {
	for _, prefix := range prefixes {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || rest == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(rest)
		if !unicode.IsUpper(r) {
			continue
		}
		return string(unicode.ToLower(r)) + rest[size:], true
	}
	return "", false
}

// Dispatch calls the table entry for name, resolving prefixed aliases first.
// A name that matches no entry fails with errs.UnknownMethod.
func Dispatch[B any](b B, resource string, table Table[B], name string, args []any, prefixes ...string) error {
	method, ok := table[name]
	if !ok {
		canonical, resolved := Resolve(name, prefixes...)
		if resolved {
			method, ok = table[canonical]
		}
	}
	if !ok {
		return errs.UnknownMethod(resource, name)
	}
	if err := method(b, args); err != nil {
		if _, typed := errs.As(err); typed {
			return err
		}
		return errs.InvalidArgument(resource, name, err)
	}
	return nil
}

// Arg returns args[i] as T.
func Arg[T any](args []any, i int) (T, error) {
	var zero T
	if i >= len(args) {
		return zero, fmt.Errorf("missing argument %d", i+1)
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, fmt.Errorf("argument %d must be %T, got %T", i+1, zero, args[i])
	}
	return v, nil
}

// OptionalArg returns args[i] as T, or def when absent.
func OptionalArg[T any](args []any, i int, def T) (T, error) {
	if i >= len(args) {
		return def, nil
	}
	return Arg[T](args, i)
}

// Require fails unless at least n arguments were passed.
func Require(args []any, n int) error {
	if len(args) < n {
		return fmt.Errorf("expected %d argument(s), got %d", n, len(args))
	}
	return nil
}

// Setter adapts a one-argument builder method to a Method.
func Setter[B, T any](set func(B, T) B) Method[B] {
	return func(b B, args []any) error {
		v, err := Arg[T](args, 0)
		if err != nil {
			return err
		}
		set(b, v)
		return nil
	}
}

// Flag adapts a no-argument builder method to a Method.
func Flag[B any](set func(B) B) Method[B] {
	return func(b B, _ []any) error {
		set(b)
		return nil
	}
}

// Variadic adapts a builder method taking ...any to a Method.
func Variadic[B any](set func(B, ...any) B) Method[B] {
	return func(b B, args []any) error {
		set(b, args...)
		return nil
	}
}
