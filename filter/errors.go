package filter

import "fmt"

// InvalidFieldError is returned when a filter names a field that cannot be filtered on.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid filter field '%s'", e.Field)
}

// InvalidValueError is returned when an operator or value does not fit the field it is applied to.
type InvalidValueError struct {
	Field  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid filter value for '%s': %s", e.Field, e.Reason)
}
