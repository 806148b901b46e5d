// Package filter lowers structured search criteria into predicates executable by the entity store.
package filter

import "time"

// Expression is a node of a filter tree. A nil Expression places no constraint on the result.
type Expression interface {
	expression()
}

// FieldFilter constrains a single field with the operators of its semantic type.
type FieldFilter struct {
	Field     string
	Condition Condition
}

// And matches when all of its children match. An empty And places no constraint.
type And struct {
	Children []Expression
}

// Or matches when any of its children matches. An empty Or matches nothing.
type Or struct {
	Children []Expression
}

// Not negates its child, which must constrain something.
type Not struct {
	Child Expression
}

func (FieldFilter) expression() {}
func (And) expression()         {}
func (Or) expression()          {}
func (Not) expression()         {}

func Field(name string, condition Condition) Expression {
	return FieldFilter{Field: name, Condition: condition}
}

func AllOf(children ...Expression) Expression {
	return And{Children: children}
}

func AnyOf(children ...Expression) Expression {
	return Or{Children: children}
}

func Negate(child Expression) Expression {
	return Not{Child: child}
}

// Condition is the operator set applied to a single field.
type Condition interface {
	fieldType() FieldType
}

// StringCondition matches text fields. Comparisons are case-sensitive unless IgnoreCase is set,
// in which case both the column and the value are lower-cased. Case-sensitive comparisons use a
// binary collation so they do not depend on the collation of the column. Contains matches the value
// literally, LIKE wildcards included.
type StringCondition struct {
	Equals     *string `mapstructure:"equals"`
	Contains   *string `mapstructure:"contains"`
	IgnoreCase bool    `mapstructure:"ignoreCase"`
}

// DateTimeCondition compares instants; values are normalized to UTC before comparison.
type DateTimeCondition struct {
	After  *time.Time `mapstructure:"after"`
	Before *time.Time `mapstructure:"before"`
	Equals *time.Time `mapstructure:"equals"`
}

type BooleanCondition struct {
	Equals *bool `mapstructure:"equals"`
}

type IntCondition struct {
	Equals      *int `mapstructure:"equals"`
	GreaterThan *int `mapstructure:"greaterThan"`
	LessThan    *int `mapstructure:"lessThan"`
}

func (StringCondition) fieldType() FieldType   { return StringField }
func (DateTimeCondition) fieldType() FieldType { return DateTimeField }
func (BooleanCondition) fieldType() FieldType  { return BooleanField }
func (IntCondition) fieldType() FieldType      { return IntField }
