package modular

import (
	"errors"
	"fmt"
)

// Dispatch errors. Both are returned wrapped, with the failing name or
// argument in the message.
var (
	// ErrUnknownMethod is returned by Call when nothing is registered
	// under the requested name.
	ErrUnknownMethod = errors.New("unknown method")

	// ErrMethodArgs is returned by Call when the provided arguments
	// don't match what the registered method expects.
	ErrMethodArgs = errors.New("invalid method arguments")
)

type (
	// Method is a callable registered in a Table under a name.
	Method func(args []interface{}) error

	// Table is a per-instance registry of named methods. Concrete
	// generators and modifiers embed a Table and register their setters
	// and getters at construction, which makes runtime parameters
	// reachable through a type-erased handle. The zero value is an
	// empty table ready to use.
	Table struct {
		methods map[string]Method
	}

	// Caller is the type-erased handle to anything carrying a method
	// table.
	Caller interface {
		Call(name string, args ...interface{}) error
	}
)

// Register adds the method under the provided name. Registering a name
// twice keeps the last method.
func (t *Table) Register(name string, m Method) {
	if t.methods == nil {
		t.methods = make(map[string]Method)
	}
	t.methods[name] = m
}

// Call invokes the method registered under the provided name. An
// unknown name fails with ErrUnknownMethod: a misspelled name at an
// assembly site surfaces at that site, it is never dropped.
func (t *Table) Call(name string, args ...interface{}) error {
	m, ok := t.methods[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return m(args)
}

// Float reads the i-th argument as a float64. Integer and float
// arguments of any width are accepted.
func Float(args []interface{}, i int) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("%w: got %d, want at least %d", ErrMethodArgs, len(args), i+1)
	}
	switch v := args[i].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%w: argument %d is %T, want a number", ErrMethodArgs, i, args[i])
}

// FloatPtr reads the i-th argument as a float64 pointer. Getters write
// their result through it.
func FloatPtr(args []interface{}, i int) (*float64, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("%w: got %d, want at least %d", ErrMethodArgs, len(args), i+1)
	}
	p, ok := args[i].(*float64)
	if !ok {
		return nil, fmt.Errorf("%w: argument %d is %T, want *float64", ErrMethodArgs, i, args[i])
	}
	return p, nil
}
