package remote

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

// NotFoundClassification marks a field error whose entity does not exist.
const NotFoundClassification = "NOT_FOUND"

// Outcome is the classified result of one attempt: either the raw value of the requested
// field or a typed failure.
type Outcome struct {
	Data interface{}
	Err  *Error
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Classification is the label used in logs and metrics.
func (o Outcome) Classification() string {
	if o.Err == nil {
		return "Success"
	}
	return o.Err.Kind.String()
}

func failure(kind Kind, message string, cause error) Outcome {
	return Outcome{Err: newError(kind, message, cause)}
}

// Classify maps the transport's answer for req to an Outcome. It performs no I/O.
func Classify(req *Request, result *graphql.Result, err error) Outcome {
	if err != nil {
		if remoteErr, ok := AsError(err); ok {
			return Outcome{Err: remoteErr}
		}
		return failure(TransportOrServerError, err.Error(), err)
	}

	if result == nil {
		return failure(TransportOrServerError, req.message("no response received"), nil)
	}

	fieldErrs := fieldErrors(result.Errors, req.field)
	data, _ := result.Data.(map[string]interface{})

	if data == nil && len(fieldErrs) == 0 {
		if len(result.Errors) > 0 {
			return failure(TransportOrServerError, responseErrorsMessage(req.message("request failed"), result.Errors), nil)
		}
		return failure(TransportOrServerError, req.message("response has no data"), nil)
	}

	if len(fieldErrs) > 0 {
		detail := fmt.Sprintf("unable to resolve %s", req.field)
		if hasClassification(fieldErrs, NotFoundClassification) {
			return failure(NotFound, responseErrorsMessage(req.identify(detail), fieldErrs), nil)
		}
		return failure(FieldAccessError, responseErrorsMessage(req.message(detail), fieldErrs), nil)
	}

	value, found := data[req.field]
	if !found {
		return failure(FieldAccessError, req.message(fmt.Sprintf("field %s missing from response", req.field)), nil)
	}

	switch req.arity {
	case Single:
		if value == nil {
			return failure(NotFound, req.identify(fmt.Sprintf("%s returned no entity", req.field)), nil)
		}
		if _, ok := value.(map[string]interface{}); !ok {
			return failure(FieldAccessError, req.message(fmt.Sprintf("expected an object for %s, got %T", req.field, value)), nil)
		}
	default:
		var items []interface{}
		if value != nil {
			list, ok := value.([]interface{})
			if !ok {
				return failure(FieldAccessError, req.message(fmt.Sprintf("expected a list for %s, got %T", req.field, value)), nil)
			}
			items = list
		}
		if len(items) == 0 {
			if req.emptyIsError {
				return failure(EmptyResult, req.identify(req.emptyMessage), nil)
			}
			return Outcome{Data: []interface{}{}}
		}
		return Outcome{Data: items}
	}

	return Outcome{Data: value}
}

func fieldErrors(errs []gqlerrors.FormattedError, field string) []gqlerrors.FormattedError {
	var matched []gqlerrors.FormattedError
	for _, e := range errs {
		if len(e.Path) > 0 && e.Path[0] == field {
			matched = append(matched, e)
		}
	}
	return matched
}

func hasClassification(errs []gqlerrors.FormattedError, classification string) bool {
	for _, e := range errs {
		if e.Extensions != nil && e.Extensions["classification"] == classification {
			return true
		}
	}
	return false
}
