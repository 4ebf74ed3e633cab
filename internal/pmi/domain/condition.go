package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Op is a condition operator, derived from the stored key suffix.
type Op string

const (
	OpMin Op = "min" // field value must be >= the constraint value
	OpMax Op = "max" // field value must be <= the constraint value
	OpEq  Op = "eq"  // exact string match
	OpIn  Op = "in"  // membership in a list of strings
)

// Constraint is one decoded field check. A stored condition like
// {"dti_min": 43, "occupancy_in": ["secondary","investment"]} decodes into
// one Constraint per key.
type Constraint struct {
	Field string
	Op    Op
	Num   float64  // OpMin / OpMax
	Str   string   // OpEq
	Set   []string // OpIn
}

// Condition is a conjunction of constraints: all must hold against the
// request attributes for the adjustment to apply.
type Condition []Constraint

// ParseCondition decodes a stored condition map into typed constraints.
// A key without a recognised suffix is carrier data corruption and returns
// an error wrapping ErrConfiguration. An empty map parses to an empty
// Condition, which never matches.
func ParseCondition(raw map[string]any) (Condition, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cond := make(Condition, 0, len(keys))
	for _, key := range keys {
		value := raw[key]
		switch {
		case strings.HasSuffix(key, "_min"), strings.HasSuffix(key, "_max"):
			num, ok := toFloat(value)
			if !ok {
				return nil, fmt.Errorf("%w: condition key %q has non-numeric value %v", ErrConfiguration, key, value)
			}
			op := OpMin
			if strings.HasSuffix(key, "_max") {
				op = OpMax
			}
			cond = append(cond, Constraint{Field: key[:len(key)-4], Op: op, Num: num})

		case strings.HasSuffix(key, "_eq"):
			cond = append(cond, Constraint{Field: key[:len(key)-3], Op: OpEq, Str: toString(value)})

		case strings.HasSuffix(key, "_in"):
			list, ok := value.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: condition key %q must hold a list, got %T", ErrConfiguration, key, value)
			}
			set := make([]string, len(list))
			for i, v := range list {
				set[i] = toString(v)
			}
			cond = append(cond, Constraint{Field: key[:len(key)-3], Op: OpIn, Set: set})

		default:
			return nil, fmt.Errorf("%w: condition key %q has no recognised operator suffix", ErrConfiguration, key)
		}
	}
	return cond, nil
}

// Matches reports whether every constraint holds for the given request
// attributes. A missing attribute fails the constraint; an empty condition
// matches nothing.
func (c Condition) Matches(attrs map[string]any) bool {
	if len(c) == 0 {
		return false
	}
	for _, con := range c {
		val, ok := attrs[con.Field]
		if !ok || val == nil {
			return false
		}
		switch con.Op {
		case OpMin:
			num, ok := toFloat(val)
			if !ok || num < con.Num {
				return false
			}
		case OpMax:
			num, ok := toFloat(val)
			if !ok || num > con.Num {
				return false
			}
		case OpEq:
			if toString(val) != con.Str {
				return false
			}
		case OpIn:
			s := toString(val)
			found := false
			for _, member := range con.Set {
				if s == member {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
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
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}
