package criteria

import "fmt"

// ValidationError reports an invalid value passed to a variant constructor,
// naming the offending field and the allowed values.
type ValidationError struct {
	Field   string
	Value   any
	Allowed []string
}

func (e *ValidationError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("criteria: invalid %s: %v", e.Field, e.Value)
	}
	return fmt.Sprintf("criteria: invalid %s: %v (allowed: %v)", e.Field, e.Value, e.Allowed)
}

// InvariantError reports a violation of a cross-field Criteria rule, such as
// setting both limit and ids.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "criteria: " + e.Msg
}
