package testutil

import (
	"os"
	"strings"

	"github.com/meitrex/course-service/log"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func PanicIfError(err error) {
	if err != nil {
		panic(err)
	}
}

func TestLogger() log.Logger {
	if strings.ToUpper(os.Getenv("TEST_TRACE")) == "ON" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return log.NewZapLogger(logger)
	}

	return log.NewZapLogger(zap.NewNop())
}

// DryRunDB returns a MySQL flavored gorm handle that renders statements without connecting.
func DryRunDB() *gorm.DB {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "course:course@tcp(127.0.0.1:3306)/course?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	PanicIfError(err)
	return db
}

// BuildSQL renders a single expression, returning the SQL text and its bound values.
func BuildSQL(db *gorm.DB, expr clause.Expression) (string, []interface{}) {
	stmt := &gorm.Statement{DB: db, Clauses: map[string]clause.Clause{}}
	expr.Build(stmt)
	return stmt.SQL.String(), stmt.Vars
}
