package cli

import (
	"errors"
	"fmt"

	"github.com/agenthands/ncalc/pkg/compiler/parser"
	"github.com/agenthands/ncalc/pkg/compiler/python"
	"github.com/agenthands/ncalc/pkg/config"
	"github.com/agenthands/ncalc/pkg/stdlib"
)

// Process exit codes.
const (
	exitGeneric = 1
	exitParse   = 2
	exitUnbound = 3
	exitConfig  = 4
)

// ExitError is an error that carries a specific process exit code.
// Cobra's RunE returns this to signal the desired exit code to main.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// exitError creates a new ExitError with the given code and formatted message.
func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// classify maps an evaluation failure to its exit code.
func classify(src string, err error) *ExitError {
	switch {
	case errors.Is(err, parser.ErrSyntax), errors.Is(err, python.ErrSyntax), errors.Is(err, python.ErrUnsupported):
		return exitError(exitParse, "%q: %s", src, err)
	case errors.Is(err, stdlib.ErrUnbound):
		return exitError(exitUnbound, "%q: %s", src, err)
	case errors.Is(err, config.ErrInvalid):
		return exitError(exitConfig, "%s", err)
	default:
		return exitError(exitGeneric, "%q: %s", src, err)
	}
}
