package criteria

// Sort orders accepted by FieldSorting.
const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// Sorting is the closed set of sort variants. Order returns the sort
// direction; ToMap returns the serialized wire form.
type Sorting interface {
	Order() string
	ToMap() map[string]any
}

// FieldSorting sorts the result by a field in an explicit direction.
// NaturalSorting selects the natural sorting algorithm and is omitted from
// the wire form when unset.
type FieldSorting struct {
	Field          string
	order          string
	NaturalSorting *bool
}

// NewFieldSorting builds a FieldSorting. The order must be "ASC" or "DESC".
func NewFieldSorting(field, order string) (*FieldSorting, error) {
	if order != OrderAsc && order != OrderDesc {
		return nil, &ValidationError{Field: "order", Value: order, Allowed: []string{OrderAsc, OrderDesc}}
	}
	return &FieldSorting{Field: field, order: order}, nil
}

// WithNaturalSorting sets the naturalSorting flag and returns the sorting
// for chaining.
func (s *FieldSorting) WithNaturalSorting(natural bool) *FieldSorting {
	s.NaturalSorting = &natural
	return s
}

// Order implements Sorting.
func (s *FieldSorting) Order() string { return s.order }

// ToMap implements Sorting.
func (s *FieldSorting) ToMap() map[string]any {
	return sortingMap(s.Field, s.order, s.NaturalSorting)
}

// AscFieldSorting sorts a field in ascending order.
type AscFieldSorting struct {
	Field          string
	NaturalSorting *bool
}

// NewAscFieldSorting builds an AscFieldSorting.
func NewAscFieldSorting(field string) *AscFieldSorting {
	return &AscFieldSorting{Field: field}
}

// WithNaturalSorting sets the naturalSorting flag and returns the sorting
// for chaining.
func (s *AscFieldSorting) WithNaturalSorting(natural bool) *AscFieldSorting {
	s.NaturalSorting = &natural
	return s
}

// Order implements Sorting. Always OrderAsc.
func (s *AscFieldSorting) Order() string { return OrderAsc }

// ToMap implements Sorting.
func (s *AscFieldSorting) ToMap() map[string]any {
	return sortingMap(s.Field, OrderAsc, s.NaturalSorting)
}

// DescFieldSorting sorts a field in descending order.
type DescFieldSorting struct {
	Field          string
	NaturalSorting *bool
}

// NewDescFieldSorting builds a DescFieldSorting.
func NewDescFieldSorting(field string) *DescFieldSorting {
	return &DescFieldSorting{Field: field}
}

// WithNaturalSorting sets the naturalSorting flag and returns the sorting
// for chaining.
func (s *DescFieldSorting) WithNaturalSorting(natural bool) *DescFieldSorting {
	s.NaturalSorting = &natural
	return s
}

// Order implements Sorting. Always OrderDesc.
func (s *DescFieldSorting) Order() string { return OrderDesc }

// ToMap implements Sorting.
func (s *DescFieldSorting) ToMap() map[string]any {
	return sortingMap(s.Field, OrderDesc, s.NaturalSorting)
}

func sortingMap(field, order string, natural *bool) map[string]any {
	m := map[string]any{"field": field, "order": order}
	if natural != nil {
		m["naturalSorting"] = *natural
	}
	return m
}
