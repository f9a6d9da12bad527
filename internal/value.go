package internal

import (
	"fmt"
	"strconv"
)

// isTruthy treats nil and false as falsy; everything else —
// including 0 and the empty string — is truthy.
func isTruthy(value interface{}) bool {
	if value == nil {
		return false
	}
	if b, ok := value.(bool); ok {
		return b
	}
	return true
}

// valuesEqual applies nil-equals-nil, tag-mismatch-is-unequal
// equality: numbers and strings use their natural equality (so
// NaN != NaN follows Go's float64 semantics), and
// callables/instances/classes use identity.
func valuesEqual(a, b interface{}) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case *instance:
		bv, ok := b.(*instance)
		return ok && av == bv
	case *class:
		bv, ok := b.(*class)
		return ok && av == bv
	case *function:
		bv, ok := b.(*function)
		return ok && av == bv
	case *nativeFn:
		bv, ok := b.(*nativeFn)
		return ok && av == bv
	default:
		return false
	}
}

// stringify renders a value the way `print` does.
func stringify(value interface{}) string {
	if value == nil {
		return "nil"
	}
	switch v := value.(type) {
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(v)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}
