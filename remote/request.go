package remote

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// Arity is the expected shape of the extracted field.
type Arity int

const (
	List Arity = iota
	Single
)

type requiredVariable struct {
	name  string
	label string
}

// Request describes one logical read-only query. Each retry reissues it unchanged.
type Request struct {
	document     string
	field        string
	variables    map[string]interface{}
	arity        Arity
	emptyIsError bool
	emptyMessage string
	required     []requiredVariable
	errorPrefix  string
}

func NewRequest(document string, field string) *Request {
	return &Request{
		document:    document,
		field:       field,
		variables:   map[string]interface{}{},
		arity:       List,
		errorPrefix: fmt.Sprintf("Error executing %s", field),
	}
}

func (r *Request) WithVariable(name string, value interface{}) *Request {
	r.variables[name] = value
	return r
}

// WithRequired rejects the request before any attempt when the named variable is absent.
// The label names the value in the error message.
func (r *Request) WithRequired(name string, label string) *Request {
	r.required = append(r.required, requiredVariable{name: name, label: label})
	return r
}

func (r *Request) WithArity(arity Arity) *Request {
	r.arity = arity
	return r
}

// WithEmptyIsError makes an empty list result fail with EmptyResult and the given message.
func (r *Request) WithEmptyIsError(message string) *Request {
	r.emptyIsError = true
	r.emptyMessage = message
	return r
}

func (r *Request) WithErrorPrefix(prefix string) *Request {
	r.errorPrefix = prefix
	return r
}

func (r *Request) Document() string {
	return r.document
}

func (r *Request) Field() string {
	return r.field
}

func (r *Request) Variables() map[string]interface{} {
	return r.variables
}

func (r *Request) message(detail string) string {
	if r.errorPrefix == "" {
		return detail
	}
	return fmt.Sprintf("%s: %s", r.errorPrefix, detail)
}

// identify appends the queried field and the required variables to a business error message.
func (r *Request) identify(detail string) string {
	parts := []string{"query " + r.field}
	for _, v := range r.required {
		parts = append(parts, fmt.Sprintf("%s %v", v.label, displayValue(r.variables[v.name])))
	}
	return fmt.Sprintf("%s (%s)", r.message(detail), strings.Join(parts, ", "))
}

// withArity returns a copy of r; the caller's request is left unchanged.
func (r *Request) withArity(arity Arity) *Request {
	clone := *r
	clone.arity = arity
	return &clone
}

func (r *Request) validate() *Error {
	for _, v := range r.required {
		if isAbsent(r.variables[v.name]) {
			return newError(InvalidInput, r.message(fmt.Sprintf("%s cannot be null", v.label)), nil)
		}
	}
	return nil
}

func isAbsent(value interface{}) bool {
	if value == nil {
		return true
	}
	if id, ok := value.(uuid.UUID); ok {
		return id == uuid.Nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func displayValue(value interface{}) interface{} {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return value
}
