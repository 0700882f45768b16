package fluent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/mailkit/errs"
)

type recorder struct {
	name string
}

var table = Table[*recorder]{
	"named": func(r *recorder, args []any) error {
		name, err := Arg[string](args, 0)
		if err != nil {
			return err
		}
		r.name = name
		return nil
	},
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		prefixes []string
		want     string
		ok       bool
	}{
		{"andNamed", []string{"and"}, "named", true},
		{"thenStart", []string{"and", "then"}, "start", true},
		{"andToGroup", []string{"and"}, "toGroup", true},
		{"android", []string{"and"}, "", false},
		{"and", []string{"and"}, "", false},
		{"named", []string{"and"}, "", false},
		{"thenStart", []string{"and"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.name, tt.prefixes...)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDispatch(t *testing.T) {
	r := &recorder{}

	require.NoError(t, Dispatch(r, "group", table, "andNamed", []any{"x"}, "and"))
	assert.Equal(t, "x", r.name)

	require.NoError(t, Dispatch(r, "group", table, "named", []any{"y"}, "and"))
	assert.Equal(t, "y", r.name)

	err := Dispatch(r, "group", table, "andNonexistentMethod", nil, "and")
	require.Error(t, err)
	assert.True(t, errs.HasType(err, "unknown_method"))

	err = Dispatch(r, "group", table, "andNamed", []any{42}, "and")
	require.Error(t, err)
	assert.True(t, errs.HasType(err, "invalid_argument"))
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestArg(t *testing.T) {
	v, err := Arg[int]([]any{3}, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = Arg[int](nil, 0)
	assert.Error(t, err)

	s, err := OptionalArg([]any{}, 0, "def")
	require.NoError(t, err)
	assert.Equal(t, "def", s)

	_, err = OptionalArg([]any{1}, 0, "def")
	assert.True(t, err != nil && !errors.Is(err, errs.ErrValidation))
}

func TestAdapters(t *testing.T) {
	type b struct{ flag bool; ids []any; name string }
	tbl := Table[*b]{
		"named": Setter(func(x *b, s string) *b { x.name = s; return x }),
		"on":    Flag(func(x *b) *b { x.flag = true; return x }),
		"ids":   Variadic(func(x *b, ids ...any) *b { x.ids = append(x.ids, ids...); return x }),
	}
	v := &b{}

	require.NoError(t, Dispatch(v, "test", tbl, "andNamed", []any{"n"}, "and"))
	require.NoError(t, Dispatch(v, "test", tbl, "andOn", nil, "and"))
	require.NoError(t, Dispatch(v, "test", tbl, "andIds", []any{1, "2"}, "and"))
	assert.Equal(t, "n", v.name)
	assert.True(t, v.flag)
	assert.Equal(t, []any{1, "2"}, v.ids)

	assert.Error(t, Require([]any{1}, 2))
	assert.NoError(t, Require([]any{1, 2}, 2))
}
