package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/graphql-go/graphql"
)

// Transport sends a query document with its variables to a peer. An error means the request
// could not complete; a result may still carry GraphQL errors.
type Transport interface {
	Execute(ctx context.Context, document string, variables map[string]interface{}) (*graphql.Result, error)
}

type TransportFunc func(ctx context.Context, document string, variables map[string]interface{}) (*graphql.Result, error)

func (f TransportFunc) Execute(ctx context.Context, document string, variables map[string]interface{}) (*graphql.Result, error) {
	return f(ctx, document, variables)
}

type requestBody struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// HTTPTransport posts queries as JSON to a GraphQL endpoint.
type HTTPTransport struct {
	url     string
	client  *http.Client
	headers http.Header
}

func NewHTTPTransport(url string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{url: url, client: client, headers: http.Header{}}
}

func (t *HTTPTransport) WithHeader(name string, value string) *HTTPTransport {
	t.headers.Set(name, value)
	return t
}

func (t *HTTPTransport) Execute(ctx context.Context, document string, variables map[string]interface{}) (*graphql.Result, error) {
	body, err := json.Marshal(requestBody{Query: document, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("unable to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for name, values := range t.headers {
		req.Header[name] = values
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response from %s: %w", t.url, err)
	}

	var result graphql.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, t.url)
		}
		return nil, fmt.Errorf("unable to decode response from %s: %w", t.url, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError && result.Data == nil && len(result.Errors) == 0 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, t.url)
	}

	return &result, nil
}

// SchemaTransport executes queries in-process against a schema.
type SchemaTransport struct {
	schema graphql.Schema
}

func NewSchemaTransport(schema graphql.Schema) *SchemaTransport {
	return &SchemaTransport{schema: schema}
}

func (t *SchemaTransport) Execute(ctx context.Context, document string, variables map[string]interface{}) (*graphql.Result, error) {
	return graphql.Do(graphql.Params{
		Schema:         t.schema,
		RequestString:  document,
		VariableValues: variables,
		Context:        ctx,
	}), nil
}
