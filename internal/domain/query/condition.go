package query

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/kailas-cloud/solrsvc/internal/domain"
)

// Op is a field operator.
type Op string

// Supported operators. OpEq is implied by a bare value.
const (
	OpEq  Op = "$eq"
	OpIn  Op = "$in"
	OpNin Op = "$nin"
	OpNe  Op = "$ne"
	OpLt  Op = "$lt"
	OpLte Op = "$lte"
	OpGt  Op = "$gt"
	OpGte Op = "$gte"
)

var knownOps = map[Op]struct{}{
	OpIn: {}, OpNin: {}, OpNe: {}, OpLt: {}, OpLte: {}, OpGt: {}, OpGte: {},
}

// Condition is a single operator applied to a field.
type Condition struct {
	field  string
	op     Op
	value  any
	values []any
}

// Field returns the field name.
func (c Condition) Field() string { return c.field }

// Op returns the operator.
func (c Condition) Op() Op { return c.op }

// Value returns the scalar operand (nil for $in/$nin, or for an explicit null match).
func (c Condition) Value() any { return c.value }

// Values returns the list operand of $in/$nin.
func (c Condition) Values() []any { return c.values }

// IsRange reports whether the operator is one of $lt/$lte/$gt/$gte.
func (c Condition) IsRange() bool {
	switch c.op {
	case OpLt, OpLte, OpGt, OpGte:
		return true
	default:
		return false
	}
}

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

// ValidField reports whether name is usable as a Solr field reference.
func ValidField(name string) bool { return fieldName.MatchString(name) }

// CheckFields validates field names used by sort and select. "*" and "score" are allowed.
func CheckFields(key string, names []string) error {
	for _, n := range names {
		if n == "*" || n == "score" || ValidField(n) {
			continue
		}
		return domain.NewBadRequest(key, fmt.Sprintf("invalid field name %q in", n))
	}
	return nil
}

func parseField(field string, val any) ([]Condition, error) {
	if !ValidField(field) {
		return nil, domain.NewBadRequest(field, "invalid field name")
	}
	switch v := val.(type) {
	case map[string]any:
		return parseOperators(field, v)
	case []any:
		if err := checkScalars(field, v); err != nil {
			return nil, err
		}
		return []Condition{{field: field, op: OpIn, values: v}}, nil
	default:
		if !isScalar(v) {
			return nil, domain.NewBadRequest(field, "unsupported value type for")
		}
		return []Condition{{field: field, op: OpEq, value: v}}, nil
	}
}

func parseOperators(field string, ops map[string]any) ([]Condition, error) {
	if len(ops) == 0 {
		return nil, domain.NewBadRequest(field, "empty operator object for")
	}

	out := make([]Condition, 0, len(ops))
	for _, key := range slices.Sorted(maps.Keys(ops)) {
		op := Op(key)
		if _, ok := knownOps[op]; !ok {
			return nil, domain.NewBadRequest(field+"."+key, "")
		}
		val := ops[key]

		switch op {
		case OpIn, OpNin:
			list, ok := val.([]any)
			if !ok {
				list = []any{val}
			}
			if err := checkScalars(field+"."+key, list); err != nil {
				return nil, err
			}
			out = append(out, Condition{field: field, op: op, values: list})
		default:
			if !isScalar(val) {
				return nil, domain.NewBadRequest(field+"."+key, "unsupported value type for")
			}
			if val == nil && op != OpNe {
				return nil, domain.NewBadRequest(field+"."+key, "null operand for")
			}
			out = append(out, Condition{field: field, op: op, value: val})
		}
	}
	return out, nil
}

func checkScalars(key string, vals []any) error {
	for i, v := range vals {
		if v == nil || !isScalar(v) {
			return domain.NewBadRequest(fmt.Sprintf("%s[%d]", key, i), "unsupported value type for")
		}
	}
	return nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64, float32, int, int64, int32:
		return true
	default:
		return false
	}
}
