package graphql

import (
	"time"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

var dateTime = newStringScalar(
	"DateTime", "The `DateTime` scalar type represents an instant."+
		" The DateTime is serialized as an RFC 3339 quoted string",
	serializeDateTime, deserializeDateTime)

var uuidScalar = newStringScalar(
	"UUID", "The `UUID` scalar type represents a UUID as a string.",
	serializeUUID, deserializeUUID)

// newStringScalar Creates a string-based scalar with custom serialization functions
func newStringScalar(
	name string, description string, serializeFn graphql.SerializeFn, deserializeFn graphql.ParseValueFn,
) *graphql.Scalar {
	return graphql.NewScalar(graphql.ScalarConfig{
		Name:         name,
		Description:  description,
		Serialize:    serializeFn,
		ParseValue:   deserializeFn,
		ParseLiteral: parseLiteralFromStringHandler(deserializeFn),
	})
}

func parseLiteralFromStringHandler(parser graphql.ParseValueFn) graphql.ParseLiteralFn {
	return func(valueAST ast.Value) interface{} {
		switch valueAST := valueAST.(type) {
		case *ast.StringValue:
			return parser(valueAST.Value)
		}
		return nil
	}
}

func deserializeDateTime(value interface{}) interface{} {
	switch value := value.(type) {
	case time.Time:
		return value
	case *time.Time:
		if value == nil {
			return nil
		}
		return *value
	case string:
		t, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return nil
		}
		return t
	case *string:
		if value == nil {
			return nil
		}
		return deserializeDateTime(*value)
	default:
		return nil
	}
}

func serializeDateTime(value interface{}) interface{} {
	switch value := value.(type) {
	case time.Time:
		return value.Format(time.RFC3339Nano)
	case *time.Time:
		if value == nil {
			return nil
		}
		return value.Format(time.RFC3339Nano)
	default:
		return value
	}
}

func deserializeUUID(value interface{}) interface{} {
	switch value := value.(type) {
	case uuid.UUID:
		return value
	case *uuid.UUID:
		if value == nil {
			return nil
		}
		return *value
	case string:
		id, err := uuid.Parse(value)
		if err != nil {
			return nil
		}
		return id
	case *string:
		if value == nil {
			return nil
		}
		return deserializeUUID(*value)
	default:
		return nil
	}
}

func serializeUUID(value interface{}) interface{} {
	switch value := value.(type) {
	case uuid.UUID:
		return value.String()
	case *uuid.UUID:
		if value == nil {
			return nil
		}
		return value.String()
	default:
		return value
	}
}
