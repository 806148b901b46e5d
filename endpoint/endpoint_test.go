package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/meitrex/course-service/client"
	"github.com/meitrex/course-service/config"
	"github.com/meitrex/course-service/db"
	"github.com/meitrex/course-service/events"
	"github.com/meitrex/course-service/graphql"
	"github.com/meitrex/course-service/internal/testutil"
	"github.com/meitrex/course-service/internal/testutil/schemas"
	"github.com/meitrex/course-service/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type migratorFunc func(ctx context.Context) error

func (f migratorFunc) Migrate(ctx context.Context) error {
	return f(ctx)
}

var noMigration = migratorFunc(func(context.Context) error { return nil })

func newRouter(t *testing.T, e *CourseEndpoint) *httprouter.Router {
	routes, err := e.RoutesGraphQL("/graphql")
	require.NoError(t, err)
	require.Len(t, routes, 2)

	router := httprouter.New()
	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}
	return router
}

func TestNewEndpointConfigWithLogger(t *testing.T) {
	cfg := NewEndpointConfigWithLogger(testutil.TestLogger(), "course:course@tcp(db:3306)/course")

	assert.Equal(t, config.AllOperations, cfg.SupportedOperations())
	assert.Equal(t, "start_date", cfg.Naming().ToDbColumn("startDate"))

	assert.IsType(t, &events.LoggingPublisher{}, cfg.Publisher())

	publisher := events.NewPublisherMock()
	cfg.WithSupportedOperations(config.CourseJoin).WithDsn("other").WithPublisher(publisher)
	assert.Equal(t, config.CourseJoin, cfg.SupportedOperations())
	assert.Equal(t, "other", cfg.dsn)
	assert.Same(t, publisher, cfg.Publisher())
}

func TestCourseEndpoint_Migrate(t *testing.T) {
	called := 0
	cfg := NewEndpointConfigWithLogger(testutil.TestLogger(), "")
	e := cfg.newEndpointWithStore(db.NewStoreMock(), migratorFunc(func(context.Context) error {
		called++
		return errors.New("access denied")
	}))

	assert.EqualError(t, e.Migrate(context.Background()), "access denied")
	assert.Equal(t, 1, called)
}

func TestCourseEndpoint_UnsupportedMutation(t *testing.T) {
	cfg := NewEndpointConfigWithLogger(testutil.TestLogger(), "").WithSupportedOperations(config.CourseJoin)
	router := newRouter(t, cfg.newEndpointWithStore(db.NewStoreMock(), noMigration))

	body, err := json.Marshal(graphql.RequestBody{
		Query: `mutation { deleteCourse(id: "` + uuid.New().String() + `") }`,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "http://127.0.0.1/graphql", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var response schemas.ResponseBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.Errors, 1)
	assert.Contains(t, response.Errors[0].Message, `Cannot query field "deleteCourse" on type "Mutation"`)
}

func TestCourseEndpoint_ServesClientOverHTTP(t *testing.T) {
	store := db.NewStoreMock()
	courseID := uuid.New()
	start := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	store.On("FindChaptersByCourseID", courseID).Return([]db.Chapter{
		{ID: uuid.New(), Title: "Basics", Number: 1, StartDate: start, EndDate: start, CourseID: courseID},
		{ID: uuid.New(), Title: "Interfaces", Number: 2, StartDate: start, EndDate: start, CourseID: courseID},
	}, nil)
	store.On("FindCoursesByIDs", []uuid.UUID{courseID}).Return([]db.Course{{ID: courseID}}, nil)

	cfg := NewEndpointConfigWithLogger(testutil.TestLogger(), "")
	server := httptest.NewServer(newRouter(t, cfg.newEndpointWithStore(store, noMigration)))
	defer server.Close()

	transport := remote.NewHTTPTransport(server.URL+"/graphql", server.Client())
	courses := client.NewCourseServiceClient(
		remote.NewClientConfig(transport, testutil.TestLogger()).NewClient(), testutil.TestLogger())

	chapters, err := courses.QueryChaptersByCourseID(context.Background(), &courseID)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Interfaces", chapters[1].Title)
	assert.Equal(t, courseID, chapters[1].Course.ID)
}
