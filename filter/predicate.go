package filter

import (
	"strings"

	"gorm.io/gorm/clause"
)

// Predicate is a boolean condition in the store's native form. A nil Predicate matches all rows.
type Predicate = clause.Expression

// Combinators always parenthesize their operands so nesting never depends on operator precedence.
type conjunction []clause.Expression

type disjunction []clause.Expression

type negation struct {
	expr clause.Expression
}

type matchNone struct{}

func (c conjunction) Build(builder clause.Builder) {
	buildJoined(builder, c, " AND ")
}

func (d disjunction) Build(builder clause.Builder) {
	buildJoined(builder, d, " OR ")
}

func (n negation) Build(builder clause.Builder) {
	builder.WriteString("NOT (")
	n.expr.Build(builder)
	builder.WriteByte(')')
}

func (matchNone) Build(builder clause.Builder) {
	builder.WriteString("1 = 0")
}

func buildJoined(builder clause.Builder, exprs []clause.Expression, separator string) {
	builder.WriteByte('(')
	for i, expr := range exprs {
		if i > 0 {
			builder.WriteString(separator)
		}
		expr.Build(builder)
	}
	builder.WriteByte(')')
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

func lowerColumn(column string, operator string, value interface{}) clause.Expression {
	return clause.Expr{
		SQL:  "LOWER(?) " + operator + " ?",
		Vars: []interface{}{clause.Column{Name: column}, value},
	}
}

// binaryCollation compares text byte by byte, whatever the collation of the column.
const binaryCollation = "utf8mb4_bin"

func binaryColumn(column string, operator string, value interface{}) clause.Expression {
	return clause.Expr{
		SQL:  "? COLLATE " + binaryCollation + " " + operator + " ?",
		Vars: []interface{}{clause.Column{Name: column}, value},
	}
}
