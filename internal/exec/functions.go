package exec

import (
	"fmt"
	"math"
	"strings"
)

// Func evaluates one registered function over already-evaluated arguments.
type Func func(args []any) (any, error)

// Registry maps function names to evaluators. Hosts may extend it with
// Register; names are case-insensitive.
type Registry struct {
	fns map[string]Func
}

// NewRegistry returns a registry pre-populated with the builtin functions.
func NewRegistry() *Registry {
	r := &Registry{fns: make(map[string]Func)}

	r.Register("contains", func(args []any) (any, error) {
		if err := arity("contains", args, 2); err != nil {
			return nil, err
		}
		if args[0] == nil || args[1] == nil {
			return false, nil
		}
		return containsValue(args[0], args[1]), nil
	})

	r.Register("hastag", func(args []any) (any, error) {
		if err := arity("hastag", args, 2); err != nil {
			return nil, err
		}
		want := strings.TrimPrefix(stringify(args[1]), "#")
		switch tags := args[0].(type) {
		case []string:
			for _, tag := range tags {
				if strings.EqualFold(tag, want) {
					return true, nil
				}
			}
		case []any:
			for _, tag := range tags {
				if strings.EqualFold(stringify(tag), want) {
					return true, nil
				}
			}
		}
		return false, nil
	})

	r.Register("lower", func(args []any) (any, error) {
		if err := arity("lower", args, 1); err != nil {
			return nil, err
		}
		return strings.ToLower(stringify(args[0])), nil
	})

	r.Register("upper", func(args []any) (any, error) {
		if err := arity("upper", args, 1); err != nil {
			return nil, err
		}
		return strings.ToUpper(stringify(args[0])), nil
	})

	r.Register("length", func(args []any) (any, error) {
		if err := arity("length", args, 1); err != nil {
			return nil, err
		}
		switch v := args[0].(type) {
		case nil:
			return float64(0), nil
		case string:
			return float64(len(v)), nil
		case []any:
			return float64(len(v)), nil
		case []string:
			return float64(len(v)), nil
		case map[string]any:
			return float64(len(v)), nil
		default:
			return nil, fmt.Errorf("length: unsupported value %T", args[0])
		}
	})

	r.Register("startswith", func(args []any) (any, error) {
		if err := arity("startswith", args, 2); err != nil {
			return nil, err
		}
		return strings.HasPrefix(
			strings.ToLower(stringify(args[0])),
			strings.ToLower(stringify(args[1])),
		), nil
	})

	r.Register("endswith", func(args []any) (any, error) {
		if err := arity("endswith", args, 2); err != nil {
			return nil, err
		}
		return strings.HasSuffix(
			strings.ToLower(stringify(args[0])),
			strings.ToLower(stringify(args[1])),
		), nil
	})

	r.Register("date", func(args []any) (any, error) {
		if err := arity("date", args, 1); err != nil {
			return nil, err
		}
		if t, ok := toTime(args[0]); ok {
			return t, nil
		}
		return nil, fmt.Errorf("date: cannot parse %v", args[0])
	})

	r.Register("default", func(args []any) (any, error) {
		if err := arity("default", args, 2); err != nil {
			return nil, err
		}
		if args[0] == nil {
			return args[1], nil
		}
		return args[0], nil
	})

	r.Register("round", func(args []any) (any, error) {
		if err := arity("round", args, 1); err != nil {
			return nil, err
		}
		n, ok := toFloat(args[0])
		if !ok {
			return nil, fmt.Errorf("round: not a number: %v", args[0])
		}
		return math.Round(n), nil
	})

	return r
}

// Register adds or replaces a function.
func (r *Registry) Register(name string, fn Func) {
	r.fns[strings.ToLower(name)] = fn
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.fns[strings.ToLower(name)]
	return fn, ok
}

func arity(name string, args []any, want int) error {
	if len(args) != want {
		return fmt.Errorf("%s expects %d arguments, got %d", name, want, len(args))
	}
	return nil
}
