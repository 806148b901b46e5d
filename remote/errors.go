package remote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/graphql-go/graphql/gqlerrors"
)

// Kind classifies why a remote query failed. Only TransportOrServerError is retried.
type Kind int

const (
	InvalidInput Kind = iota + 1
	TransportOrServerError
	FieldAccessError
	EmptyResult
	NotFound
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case TransportOrServerError:
		return "TransportOrServerError"
	case FieldAccessError:
		return "FieldAccessError"
	case EmptyResult:
		return "EmptyResult"
	case NotFound:
		return "NotFound"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) Retryable() bool {
	return k == TransportOrServerError
}

// Error is the single error type returned by the client.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// AsError finds the first *Error in err's chain, however deeply it has been wrapped.
func AsError(err error) (*Error, bool) {
	var remoteErr *Error
	if errors.As(err, &remoteErr) {
		return remoteErr, true
	}
	return nil, false
}

// Unwrap returns the *Error wrapped inside err, or err itself when there is none.
func Unwrap(err error) error {
	if remoteErr, ok := AsError(err); ok {
		return remoteErr
	}
	return err
}

func IsKind(err error, kind Kind) bool {
	remoteErr, ok := AsError(err)
	return ok && remoteErr.Kind == kind
}

func responseErrorsMessage(message string, errs []gqlerrors.FormattedError) string {
	var b strings.Builder
	b.WriteString(message)
	b.WriteString("\nGraphQL response errors:")
	for _, e := range errs {
		b.WriteString("\n")
		b.WriteString(e.Message)
		if len(e.Path) > 0 {
			b.WriteString(" at path ")
			b.WriteString(formatPath(e.Path))
		}
	}
	return b.String()
}

func formatPath(path []interface{}) string {
	parts := make([]string, 0, len(path))
	for _, p := range path {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, ".")
}
