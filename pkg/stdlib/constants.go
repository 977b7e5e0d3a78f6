package stdlib

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrUnbound is wrapped by every *UnboundIdentifierError.
var ErrUnbound = errors.New("stdlib: unbound identifier")

// UnboundIdentifierError reports an identifier with no predefined value.
type UnboundIdentifierError struct {
	Name string
}

func (e *UnboundIdentifierError) Error() string {
	return fmt.Sprintf("stdlib: unbound identifier %q (known: %s)", e.Name, strings.Join(Names(), ", "))
}

func (e *UnboundIdentifierError) Unwrap() error { return ErrUnbound }

// constants are the predefined names an expression may reference.
var constants = map[string]float64{
	"pi": math.Pi,
}

// Lookup resolves a predefined constant.
func Lookup(name string) (float64, error) {
	if v, ok := constants[name]; ok {
		return v, nil
	}
	return 0, &UnboundIdentifierError{Name: name}
}

// Names lists the predefined constants in sorted order.
func Names() []string {
	names := make([]string, 0, len(constants))
	for name := range constants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
