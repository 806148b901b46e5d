package filter

import (
	"fmt"
	"strings"

	"gorm.io/gorm/clause"
)

// Compose lowers expr into a store predicate. A nil expr, or one whose children place no
// constraint, yields a nil Predicate. An Or without constraining children matches nothing,
// and negating an unconstrained child is rejected.
func Compose(expr Expression, fields Fields) (Predicate, error) {
	switch e := expr.(type) {
	case nil:
		return nil, nil
	case FieldFilter:
		return composeField(e, fields)
	case And:
		preds, err := composeChildren(e.Children, fields)
		if err != nil {
			return nil, err
		}
		switch len(preds) {
		case 0:
			return nil, nil
		case 1:
			return preds[0], nil
		}
		return conjunction(preds), nil
	case Or:
		preds, err := composeChildren(e.Children, fields)
		if err != nil {
			return nil, err
		}
		switch len(preds) {
		case 0:
			return matchNone{}, nil
		case 1:
			return preds[0], nil
		}
		return disjunction(preds), nil
	case Not:
		pred, err := Compose(e.Child, fields)
		if err != nil {
			return nil, err
		}
		if pred == nil {
			return nil, &InvalidValueError{Field: "not", Reason: "negated filter does not constrain anything"}
		}
		return negation{expr: pred}, nil
	default:
		return nil, fmt.Errorf("unsupported filter expression %T", expr)
	}
}

func composeChildren(children []Expression, fields Fields) ([]clause.Expression, error) {
	preds := make([]clause.Expression, 0, len(children))
	for _, child := range children {
		pred, err := Compose(child, fields)
		if err != nil {
			return nil, err
		}
		if pred != nil {
			preds = append(preds, pred)
		}
	}
	return preds, nil
}

func composeField(f FieldFilter, fields Fields) (Predicate, error) {
	info, err := fields.lookup(f.Field)
	if err != nil {
		return nil, err
	}

	condition := dereference(f.Condition)
	if condition == nil {
		return nil, nil
	}

	if condition.fieldType() != info.Type {
		return nil, &InvalidValueError{
			Field:  f.Field,
			Reason: fmt.Sprintf("%s operators applied to a %s field", condition.fieldType(), info.Type),
		}
	}

	column := clause.Column{Name: info.Column}
	var preds []clause.Expression

	switch c := condition.(type) {
	case StringCondition:
		preds = stringPredicates(info.Column, c)
	case DateTimeCondition:
		if c.After != nil {
			preds = append(preds, clause.Gt{Column: column, Value: c.After.UTC()})
		}
		if c.Before != nil {
			preds = append(preds, clause.Lt{Column: column, Value: c.Before.UTC()})
		}
		if c.Equals != nil {
			preds = append(preds, clause.Eq{Column: column, Value: c.Equals.UTC()})
		}
	case BooleanCondition:
		if c.Equals != nil {
			preds = append(preds, clause.Eq{Column: column, Value: *c.Equals})
		}
	case IntCondition:
		if c.Equals != nil {
			preds = append(preds, clause.Eq{Column: column, Value: *c.Equals})
		}
		if c.GreaterThan != nil {
			preds = append(preds, clause.Gt{Column: column, Value: *c.GreaterThan})
		}
		if c.LessThan != nil {
			preds = append(preds, clause.Lt{Column: column, Value: *c.LessThan})
		}
	default:
		return nil, &InvalidValueError{Field: f.Field, Reason: fmt.Sprintf("unsupported condition %T", c)}
	}

	switch len(preds) {
	case 0:
		return nil, nil
	case 1:
		return preds[0], nil
	}
	return conjunction(preds), nil
}

// dereference accepts conditions given by pointer. A nil pointer places no constraint.
func dereference(condition Condition) Condition {
	switch c := condition.(type) {
	case *StringCondition:
		if c == nil {
			return nil
		}
		return *c
	case *DateTimeCondition:
		if c == nil {
			return nil
		}
		return *c
	case *BooleanCondition:
		if c == nil {
			return nil
		}
		return *c
	case *IntCondition:
		if c == nil {
			return nil
		}
		return *c
	}
	return condition
}

func stringPredicates(column string, c StringCondition) []clause.Expression {
	var preds []clause.Expression
	if c.IgnoreCase {
		if c.Equals != nil {
			preds = append(preds, lowerColumn(column, "=", strings.ToLower(*c.Equals)))
		}
		if c.Contains != nil {
			preds = append(preds, lowerColumn(column, "LIKE", containsPattern(strings.ToLower(*c.Contains))))
		}
		return preds
	}

	if c.Equals != nil {
		preds = append(preds, binaryColumn(column, "=", *c.Equals))
	}
	if c.Contains != nil {
		preds = append(preds, binaryColumn(column, "LIKE", containsPattern(*c.Contains)))
	}
	return preds
}
