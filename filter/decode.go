package filter

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

const (
	andKey = "and"
	orKey  = "or"
	notKey = "not"
)

// Decode converts a filter input object, as received from the API, into an expression tree.
// Field conditions, the "and" list and "not" of one object are conjoined; a non-empty "or"
// list is OR-ed with that conjunction. A nil input decodes to a nil Expression.
func Decode(input map[string]interface{}, fields Fields) (Expression, error) {
	if input == nil {
		return nil, nil
	}

	names := make([]string, 0, len(input))
	for name := range input {
		names = append(names, name)
	}
	sort.Strings(names)

	var conjoined []Expression
	var alternatives []Expression

	for _, name := range names {
		value := input[name]
		if value == nil {
			continue
		}

		switch name {
		case andKey:
			children, err := decodeList(name, value, fields)
			if err != nil {
				return nil, err
			}
			conjoined = append(conjoined, And{Children: children})
		case orKey:
			children, err := decodeList(name, value, fields)
			if err != nil {
				return nil, err
			}
			alternatives = children
		case notKey:
			child, err := decodeObject(name, value, fields)
			if err != nil {
				return nil, err
			}
			conjoined = append(conjoined, Not{Child: child})
		default:
			info, err := fields.lookup(name)
			if err != nil {
				return nil, err
			}
			condition, err := decodeCondition(name, info.Type, value)
			if err != nil {
				return nil, err
			}
			conjoined = append(conjoined, FieldFilter{Field: name, Condition: condition})
		}
	}

	expr := Expression(And{Children: conjoined})
	if len(alternatives) > 0 {
		expr = Or{Children: append([]Expression{expr}, alternatives...)}
	}
	return expr, nil
}

func decodeObject(name string, value interface{}, fields Fields) (Expression, error) {
	object, ok := value.(map[string]interface{})
	if !ok {
		return nil, &InvalidValueError{Field: name, Reason: fmt.Sprintf("expected an object, got %T", value)}
	}
	return Decode(object, fields)
}

func decodeList(name string, value interface{}, fields Fields) ([]Expression, error) {
	items, ok := value.([]interface{})
	if !ok {
		return nil, &InvalidValueError{Field: name, Reason: fmt.Sprintf("expected a list, got %T", value)}
	}

	children := make([]Expression, 0, len(items))
	for _, item := range items {
		child, err := decodeObject(name, item, fields)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func decodeCondition(name string, fieldType FieldType, value interface{}) (Condition, error) {
	var target interface{}
	switch fieldType {
	case StringField:
		target = &StringCondition{}
	case DateTimeField:
		target = &DateTimeCondition{}
	case BooleanField:
		target = &BooleanCondition{}
	case IntField:
		target = &IntCondition{}
	default:
		return nil, &InvalidValueError{Field: name, Reason: "field type does not support filtering"}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.TextUnmarshallerHookFunc(),
		ErrorUnused: true,
		Result:      target,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(value); err != nil {
		return nil, &InvalidValueError{Field: name, Reason: err.Error()}
	}

	switch c := target.(type) {
	case *StringCondition:
		return *c, nil
	case *DateTimeCondition:
		return *c, nil
	case *BooleanCondition:
		return *c, nil
	default:
		return *(c.(*IntCondition)), nil
	}
}
