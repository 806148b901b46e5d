package graphql

import (
	"errors"

	"github.com/meitrex/course-service/db"
	"github.com/meitrex/course-service/filter"
	"github.com/meitrex/course-service/remote"
)

const (
	classificationNotFound   = remote.NotFoundClassification
	classificationValidation = "ValidationError"
	classificationConflict   = "CONFLICT"
	classificationForbidden  = "FORBIDDEN"
)

// ClassifiedError is a resolver error that reports a classification in the
// extensions of the GraphQL error entry.
type ClassifiedError struct {
	err            error
	classification string
}

func (e *ClassifiedError) Error() string {
	return e.err.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.err
}

func (e *ClassifiedError) Extensions() map[string]interface{} {
	return map[string]interface{}{"classification": e.classification}
}

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func (e *ValidationError) Extensions() map[string]interface{} {
	return map[string]interface{}{"classification": classificationValidation}
}

var errNoCurrentUser = &ClassifiedError{
	err:            errors.New("no current user is associated with the request"),
	classification: classificationForbidden,
}

// classify attaches a classification to known store and filter errors.
// Unknown errors are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var (
		notFound      *db.NotFoundError
		conflict      *db.ConflictError
		invalidField  *filter.InvalidFieldError
		invalidValue  *filter.InvalidValueError
		invalidInput  *ValidationError
		alreadyMarked *ClassifiedError
	)
	switch {
	case errors.As(err, &alreadyMarked), errors.As(err, &invalidInput):
		return err
	case errors.As(err, &notFound):
		return &ClassifiedError{err: err, classification: classificationNotFound}
	case errors.As(err, &conflict):
		return &ClassifiedError{err: err, classification: classificationConflict}
	case errors.As(err, &invalidField), errors.As(err, &invalidValue):
		return &ClassifiedError{err: err, classification: classificationValidation}
	}
	return err
}
