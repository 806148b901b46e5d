package config

import "github.com/iancoleman/strcase"

// NamingConvention maps between GraphQL names and database columns.
type NamingConvention interface {
	ToDbColumn(field string) string
	ToGraphQLField(column string) string
	ToGraphQLEnumValue(name string) string
}

type defaultNaming struct {
}

func NewDefaultNaming() NamingConvention {
	return &defaultNaming{}
}

func (n *defaultNaming) ToDbColumn(field string) string {
	return strcase.ToSnake(field)
}

func (n *defaultNaming) ToGraphQLField(column string) string {
	return strcase.ToLowerCamel(column)
}

func (n *defaultNaming) ToGraphQLEnumValue(name string) string {
	return strcase.ToScreamingSnake(name)
}
