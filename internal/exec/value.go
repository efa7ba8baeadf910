package exec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/Paintersrp/vq/internal/query"
)

// resolveField walks a dotted path into resolved metadata. Lookups are
// case-insensitive at every level so frontmatter key casing never matters.
func resolveField(meta map[string]any, path string) (any, bool) {
	segments := strings.Split(path, ".")

	var current any = meta
	for _, segment := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, ok := lookupKey(m, segment)
		if !ok {
			return nil, false
		}
		current = value
	}
	return current, true
}

func lookupKey(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// compare applies a comparison operator between a resolved field value and a
// literal. A nil (absent) field compares false against everything except an
// explicit null equality.
func compare(op query.CompareOp, field, lit any) bool {
	if lit == nil {
		switch op {
		case query.OpEq:
			return field == nil
		case query.OpNeq:
			return field != nil
		default:
			return false
		}
	}
	if field == nil {
		return false
	}

	if op == query.OpContains {
		return containsValue(field, lit)
	}

	c, ok := compareValues(field, lit)
	if !ok {
		switch op {
		case query.OpEq:
			return looseEqual(field, lit)
		case query.OpNeq:
			return !looseEqual(field, lit)
		default:
			return false
		}
	}

	switch op {
	case query.OpEq:
		return c == 0
	case query.OpNeq:
		return c != 0
	case query.OpGt:
		return c > 0
	case query.OpLt:
		return c < 0
	case query.OpGte:
		return c >= 0
	case query.OpLte:
		return c <= 0
	default:
		return false
	}
}

// containsValue means substring match for strings and element membership for
// lists, both case-insensitive.
func containsValue(field, lit any) bool {
	switch v := field.(type) {
	case string:
		return strings.Contains(strings.ToLower(v), strings.ToLower(stringify(lit)))
	case []string:
		for _, item := range v {
			if looseEqual(item, lit) {
				return true
			}
		}
		return false
	case []any:
		for _, item := range v {
			if looseEqual(item, lit) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// compareValues orders two values when a common coercion exists: numeric
// first, then timestamps, then case-folded strings. Booleans only support
// equality-style ordering (false < true).
func compareValues(a, b any) (int, bool) {
	if fa, aok := toFloat(a); aok {
		if fb, bok := toFloat(b); bok {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			default:
				return 0, true
			}
		}
	}

	if ta, aok := toTime(a); aok {
		if tb, bok := toTime(b); bok {
			switch {
			case ta.Before(tb):
				return -1, true
			case ta.After(tb):
				return 1, true
			default:
				return 0, true
			}
		}
	}

	if ba, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case ba == bb:
				return 0, true
			case bb:
				return -1, true
			default:
				return 1, true
			}
		}
	}

	sa, aok := a.(string)
	sb, bok := b.(string)
	if aok && bok {
		return strings.Compare(strings.ToLower(sa), strings.ToLower(sb)), true
	}
	return 0, false
}

func looseEqual(a, b any) bool {
	if c, ok := compareValues(a, b); ok {
		return c == 0
	}
	return strings.EqualFold(stringify(a), stringify(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		trimmed := strings.TrimSpace(t)
		if !strings.ContainsAny(trimmed, "0123456789") {
			return time.Time{}, false
		}
		parsed, err := dateparse.ParseAny(trimmed)
		return parsed, err == nil
	default:
		return time.Time{}, false
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// truthy converts a resolved value into a filter outcome for bare field
// references and function results.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case time.Time:
		return !t.IsZero()
	default:
		return true
	}
}
