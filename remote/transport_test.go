package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/meitrex/course-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestHTTPTransportPostsQuery(t *testing.T) {
	var received requestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "gateway", r.Header.Get("X-Caller"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"data":{"chapters":[{"title":"Intro"}]}}`))
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, nil).WithHeader("X-Caller", "gateway")
	result, err := transport.Execute(context.Background(), chaptersQuery, map[string]interface{}{"courseId": "abc"})
	require.NoError(t, err)

	assert.Equal(t, chaptersQuery, received.Query)
	assert.Equal(t, map[string]interface{}{"courseId": "abc"}, received.Variables)
	assert.Equal(t, map[string]interface{}{
		"chapters": []interface{}{map[string]interface{}{"title": "Intro"}},
	}, result.Data)
}

func TestHTTPTransportDecodesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"chapters":null},"errors":[{"message":"not found","path":["chapters"],` +
			`"extensions":{"classification":"NOT_FOUND"}}]}`))
	}))
	defer server.Close()

	result, err := NewHTTPTransport(server.URL, nil).Execute(context.Background(), chaptersQuery, nil)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)

	outcome := Classify(NewRequest(chaptersQuery, "chapters"), result, err)
	assert.Equal(t, NotFound, outcome.Err.Kind)
}

func TestHTTPTransportServerErrors(t *testing.T) {
	requests := atomic.NewInt32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Inc()
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClientConfig(NewHTTPTransport(server.URL, server.Client()), testutil.TestLogger()).NewClient()
	_, err := Execute[chapterRow](context.Background(), client, NewRequest(chaptersQuery, "chapters"))

	assert.True(t, IsKind(err, TransportOrServerError))
	assert.Contains(t, err.Error(), "unexpected status 502")
	assert.Equal(t, int32(DefaultMaxAttempts), requests.Load())
}

func TestSchemaTransport(t *testing.T) {
	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"greeting": &graphql.Field{
					Type: graphql.String,
					Args: graphql.FieldConfigArgument{"name": {Type: graphql.NewNonNull(graphql.String)}},
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return "hello " + p.Args["name"].(string), nil
					},
				},
			},
		}),
	})
	require.NoError(t, err)

	result, err := NewSchemaTransport(schema).Execute(context.Background(),
		`query($name: String!) { greeting(name: $name) }`, map[string]interface{}{"name": "ada"})
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, map[string]interface{}{"greeting": "hello ada"}, result.Data)
}
