package domain

import "fmt"

// FilterOp is a comparison operator in a metadata filter.
type FilterOp string

// Supported filter operators.
const (
	OpEq  FilterOp = "eq"
	OpNe  FilterOp = "ne"
	OpGt  FilterOp = "gt"
	OpGte FilterOp = "gte"
	OpLt  FilterOp = "lt"
	OpLte FilterOp = "lte"
)

// IsValid returns true if the operator is recognised.
func (o FilterOp) IsValid() bool {
	switch o {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte:
		return true
	default:
		return false
	}
}

// IsRange returns true for the ordered comparison operators.
func (o FilterOp) IsRange() bool {
	return o == OpGt || o == OpGte || o == OpLt || o == OpLte
}

// Condition compares one metadata field against a value.
// Value is a string or a number (int, int64, float32 or float64).
type Condition struct {
	Field string   `json:"field"`
	Op    FilterOp `json:"op"`
	Value any      `json:"value"`
}

// Filter is a conjunction of conditions. An empty filter matches everything.
type Filter []Condition

// Eq builds an equality condition.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

// Ne builds an inequality condition.
func Ne(field string, value any) Condition {
	return Condition{Field: field, Op: OpNe, Value: value}
}

// Gt builds a strict lower bound.
func Gt(field string, value float64) Condition {
	return Condition{Field: field, Op: OpGt, Value: value}
}

// Gte builds an inclusive lower bound.
func Gte(field string, value float64) Condition {
	return Condition{Field: field, Op: OpGte, Value: value}
}

// Lt builds a strict upper bound.
func Lt(field string, value float64) Condition {
	return Condition{Field: field, Op: OpLt, Value: value}
}

// Lte builds an inclusive upper bound.
func Lte(field string, value float64) Condition {
	return Condition{Field: field, Op: OpLte, Value: value}
}

// Validate checks every condition. Ordered operators require numeric values.
func (f Filter) Validate() error {
	for _, c := range f {
		if c.Field == "" {
			return fmt.Errorf("%w: filter condition without field", ErrInvalidInput)
		}
		if !c.Op.IsValid() {
			return fmt.Errorf("%w: unknown filter operator %q", ErrInvalidInput, c.Op)
		}
		if _, ok := AsNumber(c.Value); !ok {
			if _, isString := c.Value.(string); !isString {
				return fmt.Errorf("%w: unsupported value %v for field %s", ErrInvalidInput, c.Value, c.Field)
			}
			if c.Op.IsRange() {
				return fmt.Errorf("%w: operator %s requires a number for field %s", ErrInvalidInput, c.Op, c.Field)
			}
		}
	}
	return nil
}

// Matches reports whether the metadata satisfies every condition.
func (f Filter) Matches(m VectorMetadata) bool {
	for _, c := range f {
		v, ok := m.Field(c.Field)
		if !ok || !c.matches(v) {
			return false
		}
	}
	return true
}

func (c Condition) matches(actual any) bool {
	if want, ok := c.Value.(string); ok {
		got, isString := actual.(string)
		if !isString {
			return false
		}
		switch c.Op {
		case OpEq:
			return got == want
		case OpNe:
			return got != want
		default:
			return false
		}
	}

	want, ok := AsNumber(c.Value)
	if !ok {
		return false
	}
	got, ok := AsNumber(actual)
	if !ok {
		return false
	}
	switch c.Op {
	case OpEq:
		return got == want
	case OpNe:
		return got != want
	case OpGt:
		return got > want
	case OpGte:
		return got >= want
	case OpLt:
		return got < want
	case OpLte:
		return got <= want
	default:
		return false
	}
}

// AsNumber converts the numeric types a filter accepts to float64.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
