package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	log2 "log"
	"net/http"
	"os"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/meitrex/course-service/config"
	"github.com/meitrex/course-service/endpoint"
	"github.com/meitrex/course-service/events"
	"github.com/meitrex/course-service/graphql"
	"github.com/meitrex/course-service/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultGraphQLPath = "/graphql"
const defaultGraphQLPlaygroundPath = "/graphql-playground"
const defaultMetricsPath = "/metrics"

// Environment variables prefixed with "COURSE_SERVICE_" can override settings e.g. "COURSE_SERVICE_DSN"
const envVarPrefix = "course_service"

var cfgFile string
var logger log.Logger

var serverCmd = &cobra.Command{
	Use:   os.Args[0] + " --dsn [DSN] [OPTIONS]",
	Short: "GraphQL endpoint for courses, chapters and course memberships",
	Args: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("dsn") == "" {
			return fmt.Errorf("dsn is required")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		endpoint := createEndpoint()

		if viper.GetBool("migrate") {
			if err := endpoint.Migrate(context.Background()); err != nil {
				logger.Fatal("unable to migrate database", "error", err)
			}
		}

		router := createRouter()
		addGraphQLRoutes(router, endpoint)
		maybeAddPlayground(router)
		if metricsPath := viper.GetString("metrics-path"); metricsPath != "" {
			router.Handler(http.MethodGet, metricsPath, promhttp.Handler())
		}
		listenAndServe(router, viper.GetInt("port"))
	},
}

// Execute starts the course service endpoint
func Execute() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log2.Fatalf("unable to initialize logger: %v", err)
	}

	logger = log.NewZapLogger(zapLogger)

	flags := serverCmd.PersistentFlags()

	flags.StringVarP(&cfgFile, "config", "c", "", "config file")
	flags.String("dsn", "", "MySQL data source name, e.g. user:pass@tcp(host:3306)/course?parseTime=true")
	flags.Bool("migrate", false, "create or update the course tables before serving")
	flags.Bool("request-logging", false, "enable request logging")
	flags.StringSlice("operations", []string{
		"CourseWrite",
		"ChapterWrite",
		"MembershipWrite",
		"CourseJoin",
	}, "list of supported mutation groups. options: CourseWrite,ChapterWrite,MembershipWrite,CourseJoin")
	flags.String("access-control-allow-origin", "", "Access-Control-Allow-Origin header value")
	flags.String("graphql-path", defaultGraphQLPath, "GraphQL endpoint path")
	flags.Bool("graphql-playground", true, "expose a GraphQL playground route")
	flags.String("graphql-playground-path", defaultGraphQLPlaygroundPath, "path for the GraphQL playground static file")
	flags.String("metrics-path", defaultMetricsPath, "Prometheus metrics path, empty to disable")
	flags.Int("port", 8080, "endpoint port")
	flags.String("amqp-url", "", "RabbitMQ url for course and chapter change events, empty to only log them")
	flags.String("amqp-exchange", "meitrex.events", "topic exchange for course and chapter change events")

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name != "config" {
			viper.BindPFlag(flag.Name, flags.Lookup(flag.Name))
		}
	})

	cobra.OnInitialize(initialize)

	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	serverCmd.AddCommand(queryChaptersCmd)

	if err := serverCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createEndpoint() *endpoint.CourseEndpoint {
	cfg := endpoint.NewEndpointConfigWithLogger(logger, viper.GetString("dsn"))

	supportedOps := getStringSlice("operations")
	ops, err := config.Ops(supportedOps...)
	if err != nil {
		logger.Fatal("invalid supported operation", "operations", supportedOps, "error", err)
	}
	cfg.WithSupportedOperations(ops)

	if url := viper.GetString("amqp-url"); url != "" {
		publisher, err := events.NewAMQPPublisher(url, viper.GetString("amqp-exchange"), logger)
		if err != nil {
			logger.Fatal("unable to create change event publisher", "error", err)
		}
		cfg.WithPublisher(publisher)
	}

	endpoint, err := cfg.NewEndpoint()
	if err != nil {
		logger.Fatal("unable create new endpoint",
			"error", err)
	}

	return endpoint
}

func addGraphQLRoutes(router *httprouter.Router, endpoint *endpoint.CourseEndpoint) {
	routes, err := endpoint.RoutesGraphQL(viper.GetString("graphql-path"))
	if err != nil {
		logger.Fatal("unable to generate graphql routes",
			"error", err)
	}

	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}
}

func maybeAddPlayground(router *httprouter.Router) {
	if !viper.GetBool("graphql-playground") {
		return
	}
	playgroundPath := viper.GetString("graphql-playground-path")
	hostAndPort := fmt.Sprintf("http://localhost:%d", viper.GetInt("port"))
	logger.Info("get started by visiting the GraphQL playground",
		"url", hostAndPort+playgroundPath)
	router.GET(playgroundPath, graphql.GetPlaygroundHandle(hostAndPort+viper.GetString("graphql-path")))
}

func maybeAddRequestLogging(handler http.Handler) http.Handler {
	if viper.GetBool("request-logging") {
		handler = log.NewLoggingHandler(handler, logger)
	}
	return handler
}

func maybeAddCORS(handler http.Handler) http.Handler {
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", value)
			handler.ServeHTTP(w, r)
		})
	}
	return handler
}

func initialize() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			logger.Info("using config file",
				"file", viper.ConfigFileUsed())
		}
	}
}

func createRouter() *httprouter.Router {
	router := httprouter.New()
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		router.GlobalOPTIONS = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Access-Control-Request-Method") != "" {
				header := w.Header()
				header.Set("Access-Control-Allow-Method", r.Header.Get("Access-Control-Request-Method"))
				header.Set("Access-Control-Allow-Headers", r.Header.Get("Access-Control-Request-Headers"))
				header.Set("Access-Control-Allow-Origin", value)
			}

			w.WriteHeader(http.StatusNoContent)
		})
	}
	return router
}

func listenAndServe(handler http.Handler, port int) {
	logger.Info("server listening",
		"port", port)
	handler = maybeAddCORS(maybeAddRequestLogging(handler))
	err := http.ListenAndServe(fmt.Sprintf(":%d", port), handler)
	if err != nil {
		logger.Fatal("unable to start server",
			"port", port,
			"error", err)
	}
}

func getStringSlice(key string) []string {
	value := viper.GetStringSlice(key)
	slice, err := toStringSlice(value)
	if err != nil {
		logger.Fatal("invalid string slice value for setting",
			"error", err,
			"key", key,
			"value", value)
	}
	return slice
}

func toStringSlice(slice []string) ([]string, error) {
	result := make([]string, 0)
	for _, entry := range slice {
		if entry == "" {
			continue
		}
		stringReader := strings.NewReader(entry)
		csvReader := csv.NewReader(stringReader)
		split, err := csvReader.Read()
		if err != nil {
			return nil, err
		}
		for _, part := range split {
			if part != "" { // Don't add empty values
				result = append(result, part)
			}
		}
	}
	return result, nil
}
