// Package criteria implements the query document sent to the Shopware 6
// search and list endpoints: typed filter, sorting and aggregation variants
// plus the Criteria container that serializes them into the platform's JSON
// query grammar.
//
// The wire tags ("type": "equals", "range", ...) and field names are an
// external compatibility surface and must not be renamed.
package criteria

// Query ranks a search result: any filter type can be used, the sum of the
// matching query scores yields the entity's total _score.
type Query struct {
	Score int
	Query Filter
}

// ToMap returns the serialized wire form.
func (q Query) ToMap() map[string]any {
	m := map[string]any{"score": q.Score}
	if q.Query != nil {
		m["query"] = q.Query.ToMap()
	}
	return m
}

// Criteria is the complete, serializable query document.
//
// The zero value is ready to use. limit and ids are mutually exclusive
// because the remote API treats ids as an implicit limit; both are therefore
// unexported and guarded by SetLimit and SetIDs. All other fields may be
// assigned directly before the Criteria is handed to a request.
type Criteria struct {
	limit *int
	ids   []string

	Page           *int
	Filter         []Filter
	Sort           []Sorting
	Aggregations   []Aggregation
	Associations   map[string]*Criteria
	Grouping       []string
	Includes       map[string][]string
	Query          []Query
	Term           string
	TotalCountMode *int
}

// New returns an empty Criteria.
func New() *Criteria {
	return &Criteria{}
}

// SetLimit sets the number of entries to be determined. It fails with an
// *InvariantError when ids are already set.
func (c *Criteria) SetLimit(limit int) error {
	if len(c.ids) > 0 {
		return &InvariantError{Msg: "limit can not be set when ids are set, ids act as an implicit limit"}
	}
	c.limit = &limit
	return nil
}

// Limit returns the configured limit, or nil when unset.
func (c *Criteria) Limit() *int {
	return c.limit
}

// ClearLimit removes a previously set limit.
func (c *Criteria) ClearLimit() {
	c.limit = nil
}

// SetIDs restricts the search to an explicit id set. It fails with an
// *InvariantError when a limit is already set. On success the limit is
// derived from the id count and the page is reset to 1: an explicit id set
// is always a single page sized to the id count.
func (c *Criteria) SetIDs(ids []string) error {
	if c.limit != nil {
		return &InvariantError{Msg: "ids can not be set when limit is set, ids act as an implicit limit"}
	}
	c.ids = append([]string(nil), ids...)
	if len(ids) > 0 {
		n := len(ids)
		c.limit = &n
		page := 1
		c.Page = &page
	}
	return nil
}

// IDs returns the configured id set.
func (c *Criteria) IDs() []string {
	return c.ids
}

// ToMap serializes the Criteria into the canonical wire document. Children
// are serialized first, then any field whose serialized value is nil, an
// empty list or an empty map is omitted, at every nesting level. The result
// is deterministic and calling ToMap twice yields structurally equal maps.
func (c *Criteria) ToMap() map[string]any {
	m := make(map[string]any)
	if c.limit != nil {
		m["limit"] = *c.limit
	}
	if c.Page != nil {
		m["page"] = *c.Page
	}
	if len(c.Filter) > 0 {
		m["filter"] = filtersToMaps(c.Filter)
	}
	if len(c.Sort) > 0 {
		sorts := make([]map[string]any, 0, len(c.Sort))
		for _, s := range c.Sort {
			sorts = append(sorts, s.ToMap())
		}
		m["sort"] = sorts
	}
	if len(c.Aggregations) > 0 {
		m["aggregations"] = aggregationsToMaps(c.Aggregations)
	}
	if len(c.Associations) > 0 {
		assocs := make(map[string]any, len(c.Associations))
		for name, sub := range c.Associations {
			if sub == nil {
				continue
			}
			// Children serialize first; an association that serializes to
			// an empty document is omitted like any other empty value.
			if subMap := sub.ToMap(); len(subMap) > 0 {
				assocs[name] = subMap
			}
		}
		if len(assocs) > 0 {
			m["associations"] = assocs
		}
	}
	if len(c.Grouping) > 0 {
		m["grouping"] = append([]string(nil), c.Grouping...)
	}
	if len(c.ids) > 0 {
		m["ids"] = append([]string(nil), c.ids...)
	}
	if len(c.Includes) > 0 {
		includes := make(map[string]any, len(c.Includes))
		for alias, fields := range c.Includes {
			includes[alias] = append([]string(nil), fields...)
		}
		m["includes"] = includes
	}
	if len(c.Query) > 0 {
		queries := make([]map[string]any, 0, len(c.Query))
		for _, q := range c.Query {
			queries = append(queries, q.ToMap())
		}
		m["query"] = queries
	}
	if c.Term != "" {
		m["term"] = c.Term
	}
	if c.TotalCountMode != nil {
		m["totalCountMode"] = *c.TotalCountMode
	}
	return m
}

// Int returns a pointer to v, for the optional int fields.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for the optional bool fields.
func Bool(v bool) *bool { return &v }
