package cli_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/ncalc/pkg/cli"
)

// run executes the command tree in an isolated working directory and home.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	root := cli.NewRootCmd("test")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr), "expected ExitError, got %v", err)
	return exitErr.Code
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Single", []string{"eval", "10 + (100 + 1)"}, "111\n"},
		{"Several", []string{"eval", "123", "((1 + 2) + (3 + 4)) + 5 + 6"}, "123\n21\n"},
		{"VM", []string{"eval", "--engine", "vm", "1.5 + 1.5"}, "3\n"},
		{"Python", []string{"eval", "--frontend", "python", "(1 + 2) + 3"}, "6\n"},
		{"Lenient", []string{"eval", "1 + 2 )"}, "3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEvalDemo(t *testing.T) {
	out, _, err := run(t, "eval")
	require.NoError(t, err)
	assert.Contains(t, out, `source: "123", value: 123`)
	assert.Contains(t, out, `source: "(123 + 456 ) + pi", value: 582.14159`)
	assert.Contains(t, out, `source: "((1 + 2) + (3 + 4)) + 5 + 6", value: 21`)
}

func TestEvalExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"Parse error", []string{"eval", "(1 +"}, 2},
		{"Strict trailing", []string{"eval", "--strict", "1 + 2 )"}, 2},
		{"Python unsupported", []string{"eval", "--frontend", "python", "1 * 2"}, 2},
		{"Python syntax", []string{"eval", "--frontend", "python", "(1 +"}, 2},
		{"Python syntax on ast", []string{"ast", "--frontend", "python", "1 +"}, 2},
		{"Unbound", []string{"eval", "1 + tau"}, 3},
		{"Unbound on vm", []string{"eval", "--engine", "vm", "tau"}, 3},
		{"Bad engine", []string{"eval", "--engine", "jit", "1"}, 4},
		{"Missing config", []string{"--config", "nope.yaml", "eval", "1"}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCode(t, err))
		})
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ncalc.toml")
	require.NoError(t, os.WriteFile(path, []byte("strict = true\n"), 0o644))

	_, _, err := run(t, "--config", path, "eval", "1 )")
	assert.Equal(t, 2, exitCode(t, err))

	// Flags win over the file.
	out, _, err := run(t, "--config", path, "eval", "--strict=false", "1 )")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestTokens(t *testing.T) {
	out, _, err := run(t, "tokens", "(test 12 test1  100.00)")
	require.NoError(t, err)
	assert.Equal(t, "LParen Ident Number Ident Number RParen\n", out)

	out, _, err = run(t, "tokens", "  ")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
}

func TestAST(t *testing.T) {
	out, _, err := run(t, "ast", "((1 + 2) + (3 + 4)) + 5 + 6")
	require.NoError(t, err)
	assert.Equal(t,
		"Add(Add(Add(Add(NumLiteral(1), NumLiteral(2)), Add(NumLiteral(3), NumLiteral(4))), NumLiteral(5)), NumLiteral(6))\n",
		out)

	_, _, err = run(t, "ast", "+")
	assert.Equal(t, 2, exitCode(t, err))
}

func TestVerboseLogs(t *testing.T) {
	_, stderr, err := run(t, "--verbose", "tokens", "a b")
	require.NoError(t, err)
	assert.Contains(t, stderr, "tokenized")
	assert.Contains(t, stderr, "tokens=2")
}

func TestASTLogsDepth(t *testing.T) {
	_, stderr, err := run(t, "--verbose", "ast", "(1 + 2) + 3")
	require.NoError(t, err)
	assert.Contains(t, stderr, "msg=parsed")
	assert.Contains(t, stderr, "depth=3")
}

func TestUnboundListsKnownNames(t *testing.T) {
	_, _, err := run(t, "eval", "tau")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "known: pi")
}
