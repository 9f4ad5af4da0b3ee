package query

import (
	"fmt"
	"strings"
)

// CompileWhere renders pred into a WHERE fragment and its bind
// arguments. The fragment never contains literal values; every value
// binds through a ? placeholder. A nil predicate compiles to a
// tautology so callers can splice the result unconditionally.
func CompileWhere(pred Predicate) (string, []any, error) {
	if err := Validate(pred); err != nil {
		return "", nil, err
	}
	if pred == nil {
		return "1 = 1", nil, nil
	}
	return predicateSQL(pred)
}

func predicateSQL(pred Predicate) (string, []any, error) {
	switch p := pred.(type) {
	case Equals:
		return fmt.Sprintf("%s = ?", p.Field), []any{bindValue(p.Value)}, nil
	case *Equals:
		return predicateSQL(*p)
	case NotEquals:
		return fmt.Sprintf("%s != ?", p.Field), []any{bindValue(p.Value)}, nil
	case *NotEquals:
		return predicateSQL(*p)
	case AtLeast:
		return fmt.Sprintf("%s >= ?", p.Field), []any{p.Value}, nil
	case *AtLeast:
		return predicateSQL(*p)
	case And:
		if len(p.Predicates) == 0 {
			return "1 = 1", nil, nil
		}
		clauses := make([]string, 0, len(p.Predicates))
		var args []any
		for _, sub := range p.Predicates {
			clause, subArgs, err := predicateSQL(sub)
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, "("+clause+")")
			args = append(args, subArgs...)
		}
		return strings.Join(clauses, " AND "), args, nil
	case *And:
		return predicateSQL(*p)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", pred)
	}
}

// bindValue normalizes Go values to SQLite bind types. Booleans store
// as 0/1 integers to match the schema's INTEGER columns.
func bindValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return int64(1)
		}
		return int64(0)
	}
	return v
}
