package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/meitrex/course-service/auth"
	"github.com/meitrex/course-service/config"
	"github.com/meitrex/course-service/db"
	"github.com/meitrex/course-service/log"
	"github.com/meitrex/course-service/types"
)

type executeQueryFunc func(body RequestBody, ctx context.Context) *graphql.Result

type RouteGenerator struct {
	logger    log.Logger
	schemaGen *SchemaGenerator
}

type RequestBody struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func NewRouteGenerator(store db.Store, cfg config.Config) *RouteGenerator {
	return &RouteGenerator{
		logger:    cfg.Logger(),
		schemaGen: NewSchemaGenerator(store, cfg),
	}
}

// Schema builds the schema served by the routes
func (rg *RouteGenerator) Schema() (graphql.Schema, error) {
	return rg.schemaGen.Build()
}

func (rg *RouteGenerator) Routes(pattern string) ([]types.Route, error) {
	schema, err := rg.schemaGen.Build()
	if err != nil {
		return nil, err
	}
	return routesForSchema(pattern, func(body RequestBody, ctx context.Context) *graphql.Result {
		return rg.executeQuery(body, ctx, schema)
	}), nil
}

func routesForSchema(pattern string, execute executeQueryFunc) []types.Route {
	return []types.Route{
		{
			Method:  http.MethodGet,
			Pattern: pattern,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				values := r.URL.Query()
				body := RequestBody{
					Query:         values.Get("query"),
					OperationName: values.Get("operationName"),
				}
				if variables := values.Get("variables"); variables != "" {
					if err := json.Unmarshal([]byte(variables), &body.Variables); err != nil {
						http.Error(w, "Variables are invalid", 400)
						return
					}
				}
				serve(w, r, body, execute)
			}),
		},
		{
			Method:  http.MethodPost,
			Pattern: pattern,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Body == nil {
					http.Error(w, "No request body", 400)
					return
				}

				var body RequestBody
				err := json.NewDecoder(r.Body).Decode(&body)
				if err != nil {
					http.Error(w, "Request body is invalid", 400)
					return
				}
				serve(w, r, body, execute)
			}),
		},
	}
}

func serve(w http.ResponseWriter, r *http.Request, body RequestBody, execute executeQueryFunc) {
	user, err := auth.ParseCurrentUser(r.Header.Get(auth.CurrentUserHeader))
	if err != nil {
		http.Error(w, fmt.Sprintf("%s header is invalid", auth.CurrentUserHeader), 400)
		return
	}

	ctx := r.Context()
	if user != nil {
		ctx = auth.WithContextUser(ctx, user)
	}

	result := execute(body, ctx)
	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(result)
	if err != nil {
		http.Error(w, "response could not be encoded: "+err.Error(), 500)
	}
}

func (rg *RouteGenerator) executeQuery(body RequestBody, ctx context.Context, schema graphql.Schema) *graphql.Result {
	result := graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  body.Query,
		VariableValues: body.Variables,
		OperationName:  body.OperationName,
		Context:        ctx,
	})
	if len(result.Errors) > 0 {
		rg.logger.Error("unexpected errors processing graphql query", "errors", result.Errors)
	}
	return result
}
