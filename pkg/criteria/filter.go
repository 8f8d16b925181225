package criteria

// Filter is the closed set of filter variants understood by the Shopware 6
// search endpoints. Kind returns the wire discriminant emitted as "type";
// ToMap returns the serialized wire form.
//
// See https://developer.shopware.com/docs/resources/references/core-reference/dal-reference/filters-reference
type Filter interface {
	Kind() string
	ToMap() map[string]any
}

// Operators accepted by NotFilter and MultiFilter.
const (
	OperatorAnd = "and"
	OperatorOr  = "or"
)

// Range parameter keys accepted by RangeFilter.
const (
	RangeGte = "gte"
	RangeLte = "lte"
	RangeGt  = "gt"
	RangeLt  = "lt"
)

var validOperators = []string{OperatorAnd, OperatorOr}

// EqualsFilter checks a field for an exact value.
// SQL equivalent: WHERE stock = 10.
type EqualsFilter struct {
	Field string
	Value any
}

// NewEqualsFilter builds an EqualsFilter.
func NewEqualsFilter(field string, value any) *EqualsFilter {
	return &EqualsFilter{Field: field, Value: value}
}

// Kind implements Filter.
func (f *EqualsFilter) Kind() string { return "equals" }

// ToMap implements Filter.
func (f *EqualsFilter) ToMap() map[string]any {
	return map[string]any{"type": f.Kind(), "field": f.Field, "value": f.Value}
}

// EqualsAnyFilter matches a field where at least one of the given values
// matches exactly. SQL equivalent: WHERE productNumber IN (...).
type EqualsAnyFilter struct {
	Field string
	Value []any
}

// NewEqualsAnyFilter builds an EqualsAnyFilter.
func NewEqualsAnyFilter(field string, value ...any) *EqualsAnyFilter {
	return &EqualsAnyFilter{Field: field, Value: value}
}

// Kind implements Filter.
func (f *EqualsAnyFilter) Kind() string { return "equalsAny" }

// ToMap implements Filter.
func (f *EqualsAnyFilter) ToMap() map[string]any {
	return map[string]any{"type": f.Kind(), "field": f.Field, "value": f.Value}
}

// ContainsFilter matches a field where the given value is contained
// somewhere in the full value. SQL equivalent: WHERE name LIKE '%Light%'.
type ContainsFilter struct {
	Field string
	Value string
}

// NewContainsFilter builds a ContainsFilter.
func NewContainsFilter(field, value string) *ContainsFilter {
	return &ContainsFilter{Field: field, Value: value}
}

// Kind implements Filter.
func (f *ContainsFilter) Kind() string { return "contains" }

// ToMap implements Filter.
func (f *ContainsFilter) ToMap() map[string]any {
	return map[string]any{"type": f.Kind(), "field": f.Field, "value": f.Value}
}

// RangeFilter restricts a field to a value space. Parameter keys are limited
// to gte, lte, gt and lt; values may be numbers or datetimes.
type RangeFilter struct {
	Field      string
	Parameters map[string]any
}

// NewRangeFilter builds a RangeFilter. Parameter keys outside
// {gte, lte, gt, lt} fail with a *ValidationError.
func NewRangeFilter(field string, parameters map[string]any) (*RangeFilter, error) {
	for key := range parameters {
		switch key {
		case RangeGte, RangeLte, RangeGt, RangeLt:
		default:
			return nil, &ValidationError{
				Field:   "parameters",
				Value:   key,
				Allowed: []string{RangeGte, RangeLte, RangeGt, RangeLt},
			}
		}
	}
	return &RangeFilter{Field: field, Parameters: parameters}, nil
}

// Kind implements Filter.
func (f *RangeFilter) Kind() string { return "range" }

// ToMap implements Filter.
func (f *RangeFilter) ToMap() map[string]any {
	params := make(map[string]any, len(f.Parameters))
	for k, v := range f.Parameters {
		params[k] = v
	}
	return map[string]any{"type": f.Kind(), "field": f.Field, "parameters": params}
}

// NotFilter negates the combination of its nested queries.
// SQL equivalent: WHERE !(stock = 1 OR availableStock = 1).
type NotFilter struct {
	Operator string
	Queries  []Filter
}

// NewNotFilter builds a NotFilter. The operator must be "and" or "or".
func NewNotFilter(operator string, queries ...Filter) (*NotFilter, error) {
	if err := checkOperator(operator); err != nil {
		return nil, err
	}
	return &NotFilter{Operator: operator, Queries: queries}, nil
}

// Kind implements Filter.
func (f *NotFilter) Kind() string { return "not" }

// ToMap implements Filter.
func (f *NotFilter) ToMap() map[string]any {
	return map[string]any{"type": f.Kind(), "operator": f.Operator, "queries": filtersToMaps(f.Queries)}
}

// MultiFilter combines its nested queries with a logical operator.
// SQL equivalent: WHERE (stock = 1 OR availableStock = 1).
type MultiFilter struct {
	Operator string
	Queries  []Filter
}

// NewMultiFilter builds a MultiFilter. The operator must be "and" or "or".
func NewMultiFilter(operator string, queries ...Filter) (*MultiFilter, error) {
	if err := checkOperator(operator); err != nil {
		return nil, err
	}
	return &MultiFilter{Operator: operator, Queries: queries}, nil
}

// Kind implements Filter.
func (f *MultiFilter) Kind() string { return "multi" }

// ToMap implements Filter.
func (f *MultiFilter) ToMap() map[string]any {
	return map[string]any{"type": f.Kind(), "operator": f.Operator, "queries": filtersToMaps(f.Queries)}
}

// PrefixFilter matches a field where the given value is the start of the
// full value. SQL equivalent: WHERE name LIKE 'Light%'.
type PrefixFilter struct {
	Field string
	Value string
}

// NewPrefixFilter builds a PrefixFilter.
func NewPrefixFilter(field, value string) *PrefixFilter {
	return &PrefixFilter{Field: field, Value: value}
}

// Kind implements Filter.
func (f *PrefixFilter) Kind() string { return "prefix" }

// ToMap implements Filter.
func (f *PrefixFilter) ToMap() map[string]any {
	return map[string]any{"type": f.Kind(), "field": f.Field, "value": f.Value}
}

// SuffixFilter matches a field where the given value is the end of the
// full value. SQL equivalent: WHERE name LIKE '%weight'.
type SuffixFilter struct {
	Field string
	Value string
}

// NewSuffixFilter builds a SuffixFilter.
func NewSuffixFilter(field, value string) *SuffixFilter {
	return &SuffixFilter{Field: field, Value: value}
}

// Kind implements Filter.
func (f *SuffixFilter) Kind() string { return "suffix" }

// ToMap implements Filter.
func (f *SuffixFilter) ToMap() map[string]any {
	return map[string]any{"type": f.Kind(), "field": f.Field, "value": f.Value}
}

func checkOperator(operator string) error {
	if operator != OperatorAnd && operator != OperatorOr {
		return &ValidationError{Field: "operator", Value: operator, Allowed: validOperators}
	}
	return nil
}

func filtersToMaps(filters []Filter) []map[string]any {
	out := make([]map[string]any, 0, len(filters))
	for _, f := range filters {
		out = append(out, f.ToMap())
	}
	return out
}
