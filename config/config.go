package config

import (
	"github.com/meitrex/course-service/events"
	"github.com/meitrex/course-service/log"
)

type Config interface {
	Naming() NamingConvention
	SupportedOperations() Operations
	Publisher() events.Publisher
	Logger() log.Logger
}
