package graphql

import (
	"github.com/graphql-go/graphql"
)

var stringFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name:        "StringFilter",
	Description: "Matches text fields. Comparisons are case-sensitive unless ignoreCase is true.",
	Fields: graphql.InputObjectConfigFieldMap{
		"equals":     {Type: graphql.String},
		"contains":   {Type: graphql.String},
		"ignoreCase": {Type: graphql.Boolean, DefaultValue: false},
	},
})

var dateTimeFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "DateTimeFilter",
	Fields: graphql.InputObjectConfigFieldMap{
		"after":  {Type: dateTime},
		"before": {Type: dateTime},
		"equals": {Type: dateTime},
	},
})

var booleanFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "BooleanFilter",
	Fields: graphql.InputObjectConfigFieldMap{
		"equals": {Type: graphql.Boolean},
	},
})

var intFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "IntFilter",
	Fields: graphql.InputObjectConfigFieldMap{
		"equals":      {Type: graphql.Int},
		"greaterThan": {Type: graphql.Int},
		"lessThan":    {Type: graphql.Int},
	},
})

var courseFilterInput *graphql.InputObject

func init() {
	courseFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CourseFilter",
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			return graphql.InputObjectConfigFieldMap{
				"title":       {Type: stringFilterInput},
				"description": {Type: stringFilterInput},
				"startDate":   {Type: dateTimeFilterInput},
				"endDate":     {Type: dateTimeFilterInput},
				"published":   {Type: booleanFilterInput},
				"startYear":   {Type: intFilterInput},
				"and":         {Type: graphql.NewList(graphql.NewNonNull(courseFilterInput))},
				"or":          {Type: graphql.NewList(graphql.NewNonNull(courseFilterInput))},
				"not":         {Type: courseFilterInput},
			}
		}),
	})
}
