package criteria

// Aggregation is the closed set of aggregation variants computed on the fly
// by the search endpoints. Kind returns the wire discriminant emitted as
// "type"; ToMap returns the serialized wire form.
//
// See https://developer.shopware.com/docs/resources/references/core-reference/dal-reference/aggregations-reference
type Aggregation interface {
	Kind() string
	ToMap() map[string]any
}

// Date intervals accepted by DateHistogramAggregation.
const (
	IntervalMinute  = "minute"
	IntervalHour    = "hour"
	IntervalDay     = "day"
	IntervalWeek    = "week"
	IntervalMonth   = "month"
	IntervalQuarter = "quarter"
	IntervalYear    = "year"
)

var validIntervals = []string{
	IntervalMinute, IntervalHour, IntervalDay, IntervalWeek,
	IntervalMonth, IntervalQuarter, IntervalYear,
}

// metricAggregation covers the single-field metric variants that differ only
// by their wire tag: avg, count, max, min, sum and stats.
type metricAggregation struct {
	Name  string
	Field string
	kind  string
}

func (a *metricAggregation) Kind() string { return a.kind }

func (a *metricAggregation) ToMap() map[string]any {
	return map[string]any{"name": a.Name, "type": a.kind, "field": a.Field}
}

// AvgAggregation calculates the average value of a field. SQL: AVG(price).
type AvgAggregation struct{ metricAggregation }

// NewAvgAggregation builds an AvgAggregation.
func NewAvgAggregation(name, field string) *AvgAggregation {
	return &AvgAggregation{metricAggregation{Name: name, Field: field, kind: "avg"}}
}

// CountAggregation counts the entries with a value for a field.
// SQL: COUNT(DISTINCT(manufacturerId)).
type CountAggregation struct{ metricAggregation }

// NewCountAggregation builds a CountAggregation.
func NewCountAggregation(name, field string) *CountAggregation {
	return &CountAggregation{metricAggregation{Name: name, Field: field, kind: "count"}}
}

// MaxAggregation determines the maximum value of a field. SQL: MAX(price).
type MaxAggregation struct{ metricAggregation }

// NewMaxAggregation builds a MaxAggregation.
func NewMaxAggregation(name, field string) *MaxAggregation {
	return &MaxAggregation{metricAggregation{Name: name, Field: field, kind: "max"}}
}

// MinAggregation determines the minimum value of a field. SQL: MIN(price).
type MinAggregation struct{ metricAggregation }

// NewMinAggregation builds a MinAggregation.
func NewMinAggregation(name, field string) *MinAggregation {
	return &MinAggregation{metricAggregation{Name: name, Field: field, kind: "min"}}
}

// SumAggregation determines the total of a field. SQL: SUM(price).
type SumAggregation struct{ metricAggregation }

// NewSumAggregation builds a SumAggregation.
func NewSumAggregation(name, field string) *SumAggregation {
	return &SumAggregation{metricAggregation{Name: name, Field: field, kind: "sum"}}
}

// StatsAggregation calculates max, min, avg and sum of a field at once.
type StatsAggregation struct{ metricAggregation }

// NewStatsAggregation builds a StatsAggregation.
func NewStatsAggregation(name, field string) *StatsAggregation {
	return &StatsAggregation{metricAggregation{Name: name, Field: field, kind: "stats"}}
}

// TermsAggregation determines the unique values of a field and how often
// each occurs. Sort, Limit and Aggregation are optional refinements; a
// nested Aggregation is computed per key.
type TermsAggregation struct {
	Name        string
	Field       string
	Sort        Sorting
	Limit       *int
	Aggregation Aggregation
}

// NewTermsAggregation builds a TermsAggregation.
func NewTermsAggregation(name, field string) *TermsAggregation {
	return &TermsAggregation{Name: name, Field: field}
}

// Kind implements Aggregation.
func (a *TermsAggregation) Kind() string { return "terms" }

// ToMap implements Aggregation.
func (a *TermsAggregation) ToMap() map[string]any {
	m := map[string]any{"name": a.Name, "type": a.Kind(), "field": a.Field}
	if a.Sort != nil {
		m["sort"] = a.Sort.ToMap()
	}
	if a.Limit != nil {
		m["limit"] = *a.Limit
	}
	if a.Aggregation != nil {
		m["aggregation"] = a.Aggregation.ToMap()
	}
	return m
}

// FilterAggregation restricts the input of a nested aggregation without
// affecting other aggregations or the search result. It produces no result
// of its own and cannot be used alone.
type FilterAggregation struct {
	Name        string
	Filter      []Filter
	Aggregation Aggregation
}

// NewFilterAggregation builds a FilterAggregation.
func NewFilterAggregation(name string, aggregation Aggregation, filter ...Filter) *FilterAggregation {
	return &FilterAggregation{Name: name, Filter: filter, Aggregation: aggregation}
}

// Kind implements Aggregation.
func (a *FilterAggregation) Kind() string { return "filter" }

// ToMap implements Aggregation.
func (a *FilterAggregation) ToMap() map[string]any {
	m := map[string]any{"name": a.Name, "type": a.Kind(), "filter": filtersToMaps(a.Filter)}
	if a.Aggregation != nil {
		m["aggregation"] = a.Aggregation.ToMap()
	}
	return m
}

// EntityAggregation determines the unique values of a field and loads the
// named entity definition using those values as ids.
type EntityAggregation struct {
	Name       string
	Definition string
	Field      string
}

// NewEntityAggregation builds an EntityAggregation.
func NewEntityAggregation(name, definition, field string) *EntityAggregation {
	return &EntityAggregation{Name: name, Definition: definition, Field: field}
}

// Kind implements Aggregation.
func (a *EntityAggregation) Kind() string { return "entity" }

// ToMap implements Aggregation.
func (a *EntityAggregation) ToMap() map[string]any {
	return map[string]any{"name": a.Name, "type": a.Kind(), "definition": a.Definition, "field": a.Field}
}

// DateHistogramAggregation groups a date field by interval and counts the
// hits per bucket. The wire tag is "histogram".
type DateHistogramAggregation struct {
	Name     string
	Field    string
	Interval string
}

// NewDateHistogramAggregation builds a DateHistogramAggregation. The
// interval must be one of minute, hour, day, week, month, quarter or year.
func NewDateHistogramAggregation(name, field, interval string) (*DateHistogramAggregation, error) {
	valid := false
	for _, iv := range validIntervals {
		if interval == iv {
			valid = true
			break
		}
	}
	if !valid {
		return nil, &ValidationError{Field: "interval", Value: interval, Allowed: validIntervals}
	}
	return &DateHistogramAggregation{Name: name, Field: field, Interval: interval}, nil
}

// Kind implements Aggregation.
func (a *DateHistogramAggregation) Kind() string { return "histogram" }

// ToMap implements Aggregation.
func (a *DateHistogramAggregation) ToMap() map[string]any {
	return map[string]any{"name": a.Name, "type": a.Kind(), "field": a.Field, "interval": a.Interval}
}

func aggregationsToMaps(aggs []Aggregation) []map[string]any {
	out := make([]map[string]any, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, a.ToMap())
	}
	return out
}
