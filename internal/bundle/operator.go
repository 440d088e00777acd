package bundle

import (
	"errors"
	"fmt"
)

// Operator is a symbolic combinator shorthand accepted at reducer
// registration. It resolves to a Combinator once, when registered.
type Operator string

const (
	// OpAdd sums numbers and concatenates strings, byte slices and slices.
	OpAdd Operator = "+"
	// OpMax keeps the larger of two numbers.
	OpMax Operator = "max"
	// OpMin keeps the smaller of two numbers.
	OpMin Operator = "min"
)

// ErrUnknownOperator reports an operator shorthand with no combinator.
var ErrUnknownOperator = errors.New("bundle: unknown reducer operator")

// Combinator resolves the shorthand. Unknown operators fail here, at
// registration time, rather than mid-fold.
func (op Operator) Combinator() (Combinator, error) {
	switch op {
	case OpAdd:
		return add, nil
	case OpMax:
		return max2, nil
	case OpMin:
		return min2, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, string(op))
	}
}

func add(acc, value interface{}) (interface{}, error) {
	// Same-kind integers stay integers; mixed numerics widen to float64.
	if ai, ok := acc.(int); ok {
		if bi, ok := value.(int); ok {
			return ai + bi, nil
		}
	}
	if ai, ok := acc.(int64); ok {
		if bi, ok := value.(int64); ok {
			return ai + bi, nil
		}
	}
	switch a := acc.(type) {
	case int, int64, float64:
		if af, bf, ok := numericPair(acc, value); ok {
			return af + bf, nil
		}
	case string:
		if b, ok := value.(string); ok {
			return a + b, nil
		}
	case []byte:
		if b, ok := value.([]byte); ok {
			joined := make([]byte, 0, len(a)+len(b))
			joined = append(joined, a...)
			joined = append(joined, b...)
			return joined, nil
		}
	case []string:
		if b, ok := value.([]string); ok {
			joined := make([]string, 0, len(a)+len(b))
			joined = append(joined, a...)
			joined = append(joined, b...)
			return joined, nil
		}
	case []interface{}:
		if b, ok := value.([]interface{}); ok {
			joined := make([]interface{}, 0, len(a)+len(b))
			joined = append(joined, a...)
			joined = append(joined, b...)
			return joined, nil
		}
	}
	return nil, fmt.Errorf("operator + cannot combine %T with %T", acc, value)
}

func max2(acc, value interface{}) (interface{}, error) {
	af, bf, ok := numericPair(acc, value)
	if !ok {
		return nil, fmt.Errorf("operator max cannot compare %T with %T", acc, value)
	}
	if bf > af {
		return value, nil
	}
	return acc, nil
}

func min2(acc, value interface{}) (interface{}, error) {
	af, bf, ok := numericPair(acc, value)
	if !ok {
		return nil, fmt.Errorf("operator min cannot compare %T with %T", acc, value)
	}
	if bf < af {
		return value, nil
	}
	return acc, nil
}

func numericPair(a, b interface{}) (float64, float64, bool) {
	af, aOK := toFloat(a)
	bf, bOK := toFloat(b)
	return af, bf, aOK && bOK
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
