// Package query builds parameterized SQL filters over stored run
// history.
//
// Predicates form a small sealed AST compiled to a WHERE fragment.
// Field names are validated against the runs table's column set before
// they reach SQL, and values always bind through placeholders, never
// by interpolation.
package query

import "fmt"

// Predicate represents one filter condition.
//
// This is a sealed interface - only types in this package implement
// it, which keeps the compiler's type switch exhaustive.
type Predicate interface {
	predicateNode()
}

// Equals matches rows whose field equals value.
type Equals struct {
	Field string
	Value any
}

func (Equals) predicateNode() {}

// NotEquals matches rows whose field differs from value. The usual use
// is NotEquals{Field: "status", Value: 0} for failed runs.
type NotEquals struct {
	Field string
	Value any
}

func (NotEquals) predicateNode() {}

// AtLeast matches rows whose integer field is >= value.
type AtLeast struct {
	Field string
	Value int64
}

func (AtLeast) predicateNode() {}

// And is a conjunction: every predicate must hold. An empty And is
// always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// allowedFields is the filterable column set of the runs table.
// Compiling a predicate over any other field is an error, since field
// names are interpolated into SQL.
var allowedFields = map[string]bool{
	"run_id":   true,
	"digest":   true,
	"scenario": true,
	"addr":     true,
	"workers":  true,
	"status":   true,
}

// Validate checks that every field reference in pred is filterable and
// every value has a bindable type. A nil predicate is valid.
func Validate(pred Predicate) error {
	if pred == nil {
		return nil
	}
	switch p := pred.(type) {
	case Equals:
		return validateField(p.Field, p.Value)
	case *Equals:
		return validateField(p.Field, p.Value)
	case NotEquals:
		return validateField(p.Field, p.Value)
	case *NotEquals:
		return validateField(p.Field, p.Value)
	case AtLeast:
		return validateField(p.Field, p.Value)
	case *AtLeast:
		return validateField(p.Field, p.Value)
	case And:
		for i, sub := range p.Predicates {
			if err := Validate(sub); err != nil {
				return fmt.Errorf("and[%d]: %w", i, err)
			}
		}
		return nil
	case *And:
		return Validate(*p)
	default:
		return fmt.Errorf("unsupported predicate type: %T", pred)
	}
}

func validateField(field string, value any) error {
	if !allowedFields[field] {
		return fmt.Errorf("field %q is not filterable", field)
	}
	switch value.(type) {
	case string, int, int64, bool:
		return nil
	default:
		return fmt.Errorf("field %q: unsupported value type %T", field, value)
	}
}
