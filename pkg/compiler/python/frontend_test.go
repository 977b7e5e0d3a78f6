package python_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/ncalc/pkg/compiler/ast"
	"github.com/agenthands/ncalc/pkg/compiler/parser"
	"github.com/agenthands/ncalc/pkg/compiler/python"
	"github.com/agenthands/ncalc/pkg/eval"
)

func TestParseMatchesNativeParser(t *testing.T) {
	sources := []string{
		"123",
		"(123 + 456 ) + pi",
		"10 + (100 + 1)",
		"((1 + 2) + (3 + 4)) + 5 + 6",
		"x_1 + 2.5",
		"-3 + 1.5e2",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			want, err := parser.Parse(src)
			require.NoError(t, err)

			got, err := python.Parse(src)
			require.NoError(t, err)

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("python.Parse(%q) mismatch (-native +python):\n%s", src, diff)
			}
		})
	}
}

func TestParseEvaluates(t *testing.T) {
	expr, err := python.Parse("(123 + 456) + pi")
	require.NoError(t, err)

	got, err := eval.Eval(expr)
	require.NoError(t, err)
	assert.Equal(t, 579+math.Pi, got)
}

func TestParseUnsupported(t *testing.T) {
	tests := []string{
		"1 - 2",
		"2 * pi",
		"f(1)",
		"-pi",
		"'text'",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := python.Parse(src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, python.ErrUnsupported), "got %v", err)
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	for _, src := range []string{"(1 +", "1 +", "pi pi"} {
		t.Run(src, func(t *testing.T) {
			_, err := python.Parse(src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, python.ErrSyntax), "got %v", err)
			assert.False(t, errors.Is(err, python.ErrUnsupported))
		})
	}
}

func TestParseSignedLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"- 1", -1},
		{"-(1)", -1},
		{"+ 3", 3},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := python.Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, &ast.NumLiteral{Value: tt.want}, got)

			_, err = parser.Parse(tt.src)
			assert.Error(t, err, "the native grammar is stricter")
		})
	}
}

func TestParseLeftAssociative(t *testing.T) {
	got, err := python.Parse("a + b + c")
	require.NoError(t, err)

	want := ast.Sum(&ast.Ident{Name: "a"}, &ast.Ident{Name: "b"}, &ast.Ident{Name: "c"})
	assert.Equal(t, want, got)
}
