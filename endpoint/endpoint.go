package endpoint

import (
	"context"

	"github.com/meitrex/course-service/config"
	"github.com/meitrex/course-service/db"
	"github.com/meitrex/course-service/events"
	"github.com/meitrex/course-service/graphql"
	"github.com/meitrex/course-service/log"
	"github.com/meitrex/course-service/types"
	"go.uber.org/zap"
)

type CourseEndpointConfig struct {
	dsn          string
	naming       config.NamingConvention
	supportedOps config.Operations
	publisher    events.Publisher
	logger       log.Logger
}

func (cfg CourseEndpointConfig) Naming() config.NamingConvention {
	return cfg.naming
}

func (cfg CourseEndpointConfig) SupportedOperations() config.Operations {
	return cfg.supportedOps
}

func (cfg CourseEndpointConfig) Publisher() events.Publisher {
	return cfg.publisher
}

func (cfg CourseEndpointConfig) Logger() log.Logger {
	return cfg.logger
}

func (cfg *CourseEndpointConfig) WithNaming(naming config.NamingConvention) *CourseEndpointConfig {
	cfg.naming = naming
	return cfg
}

func (cfg *CourseEndpointConfig) WithSupportedOperations(supportedOps config.Operations) *CourseEndpointConfig {
	cfg.supportedOps = supportedOps
	return cfg
}

// WithPublisher replaces the default publisher, which only logs change events
func (cfg *CourseEndpointConfig) WithPublisher(publisher events.Publisher) *CourseEndpointConfig {
	cfg.publisher = publisher
	return cfg
}

func (cfg *CourseEndpointConfig) WithDsn(dsn string) *CourseEndpointConfig {
	cfg.dsn = dsn
	return cfg
}

// NewEndpoint connects to the database named by the DSN
func (cfg CourseEndpointConfig) NewEndpoint() (*CourseEndpoint, error) {
	store, err := db.NewDb(cfg.dsn, cfg.naming, cfg.logger)
	if err != nil {
		return nil, err
	}
	return cfg.newEndpointWithStore(store, store), nil
}

func (cfg CourseEndpointConfig) newEndpointWithStore(store db.Store, migrator migrator) *CourseEndpoint {
	return &CourseEndpoint{
		graphQLRouteGen: graphql.NewRouteGenerator(store, cfg),
		migrator:        migrator,
		logger:          cfg.logger,
	}
}

type migrator interface {
	Migrate(ctx context.Context) error
}

type CourseEndpoint struct {
	graphQLRouteGen *graphql.RouteGenerator
	migrator        migrator
	logger          log.Logger
}

func NewEndpointConfig(dsn string) (*CourseEndpointConfig, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewEndpointConfigWithLogger(log.NewZapLogger(logger), dsn), nil
}

func NewEndpointConfigWithLogger(logger log.Logger, dsn string) *CourseEndpointConfig {
	return &CourseEndpointConfig{
		dsn:          dsn,
		naming:       config.NewDefaultNaming(),
		supportedOps: config.AllOperations,
		publisher:    events.NewLoggingPublisher(logger),
		logger:       logger,
	}
}

func (e *CourseEndpoint) RoutesGraphQL(pattern string) ([]types.Route, error) {
	return e.graphQLRouteGen.Routes(pattern)
}

// Migrate creates or updates the course tables
func (e *CourseEndpoint) Migrate(ctx context.Context) error {
	e.logger.Info("migrating course tables")
	return e.migrator.Migrate(ctx)
}
