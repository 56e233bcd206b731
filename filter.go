package firequery

import (
	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
)

// Operator is a field filter comparison operator, spelled the way the
// Firestore client spells it.
type Operator string

const (
	OpEqual              Operator = "=="
	OpNotEqual           Operator = "!="
	OpLessThan           Operator = "<"
	OpLessThanOrEqual    Operator = "<="
	OpGreaterThan        Operator = ">"
	OpGreaterThanOrEqual Operator = ">="
	OpArrayContains      Operator = "array-contains"
	OpArrayContainsAny   Operator = "array-contains-any"
	OpIn                 Operator = "in"
	OpNotIn              Operator = "not-in"
)

var operators = map[Operator]struct{}{
	OpEqual: {}, OpNotEqual: {},
	OpLessThan: {}, OpLessThanOrEqual: {},
	OpGreaterThan: {}, OpGreaterThanOrEqual: {},
	OpArrayContains: {}, OpArrayContainsAny: {},
	OpIn: {}, OpNotIn: {},
}

// CompositeOperator combines child filters.
type CompositeOperator string

const (
	CompositeAnd CompositeOperator = "and"
	CompositeOr  CompositeOperator = "or"
)

// FieldFilter compares a single field against a wire value.
type FieldFilter struct {
	Path  string   `json:"path"`
	Op    Operator `json:"op"`
	Value Value    `json:"value"`
}

// CompositeFilter combines one or more child filters with and/or.
type CompositeFilter struct {
	Op      CompositeOperator `json:"op"`
	Filters []Filter          `json:"filters"`
}

// Filter is a node of the filter tree. Exactly one of Field or Composite
// is set.
type Filter struct {
	Field     *FieldFilter     `json:"field,omitempty"`
	Composite *CompositeFilter `json:"composite,omitempty"`
}

// FieldWhere builds a single field filter node.
func FieldWhere(path string, op Operator, value Value) Filter {
	return Filter{Field: &FieldFilter{Path: path, Op: op, Value: value}}
}

// And groups filters under a composite AND node.
func And(filters ...Filter) Filter {
	return Filter{Composite: &CompositeFilter{Op: CompositeAnd, Filters: filters}}
}

// Or groups filters under a composite OR node.
func Or(filters ...Filter) Filter {
	return Filter{Composite: &CompositeFilter{Op: CompositeOr, Filters: filters}}
}

// CompileFilter recursively compiles a filter tree into the client's
// EntityFilter form. Child order is preserved; a composite node becomes a
// single flat combinator over its compiled children.
func (c *Codec) CompileFilter(f Filter) (firestore.EntityFilter, error) {
	switch {
	case f.Field != nil && f.Composite == nil:
		return c.compileFieldFilter(*f.Field)
	case f.Composite != nil && f.Field == nil:
		return c.compileCompositeFilter(*f.Composite)
	default:
		return nil, goerr.New("filter node must set exactly one of field or composite",
			goerr.T(TagUnsupportedValueKind))
	}
}

func (c *Codec) compileFieldFilter(f FieldFilter) (firestore.EntityFilter, error) {
	if _, ok := operators[f.Op]; !ok {
		return nil, goerr.New("unknown filter operator",
			goerr.V("operator", string(f.Op)),
			goerr.V("path", f.Path),
			goerr.T(TagUnsupportedValueKind))
	}

	value, err := c.Decode(f.Value)
	if err != nil {
		return nil, err
	}

	// The identifier sentinel is passed through as the client's special
	// path string, never parsed as a literal field name.
	if f.Path == DocumentID {
		return firestore.PropertyFilter{
			Path:     firestore.DocumentID,
			Operator: string(f.Op),
			Value:    value,
		}, nil
	}

	fp, err := ParseFieldPath(f.Path)
	if err != nil {
		return nil, err
	}
	return firestore.PropertyPathFilter{
		Path:     fp,
		Operator: string(f.Op),
		Value:    value,
	}, nil
}

func (c *Codec) compileCompositeFilter(f CompositeFilter) (firestore.EntityFilter, error) {
	if len(f.Filters) == 0 {
		return nil, goerr.New("composite filter has no children",
			goerr.V("operator", string(f.Op)))
	}

	children := make([]firestore.EntityFilter, len(f.Filters))
	for i, child := range f.Filters {
		compiled, err := c.CompileFilter(child)
		if err != nil {
			return nil, err
		}
		children[i] = compiled
	}

	switch f.Op {
	case CompositeAnd:
		return firestore.AndFilter{Filters: children}, nil
	case CompositeOr:
		return firestore.OrFilter{Filters: children}, nil
	default:
		return nil, goerr.New("unknown composite operator",
			goerr.V("operator", string(f.Op)),
			goerr.T(TagUnsupportedValueKind))
	}
}
