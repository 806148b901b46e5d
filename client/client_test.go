package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	gql "github.com/graphql-go/graphql"
	"github.com/meitrex/course-service/config"
	"github.com/meitrex/course-service/db"
	"github.com/meitrex/course-service/graphql"
	"github.com/meitrex/course-service/internal/testutil"
	"github.com/meitrex/course-service/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var courseID = uuid.MustParse("0b1d2c3e-4f50-4617-8a9b-0c1d2e3f4a5b")

func newClient(t *testing.T, store db.Store) *CourseServiceClient {
	schema, err := graphql.NewSchemaGenerator(store, config.NewConfigMock().Default()).Build()
	require.NoError(t, err)
	transport := remote.NewSchemaTransport(schema)
	return NewCourseServiceClient(remote.NewClientConfig(transport, testutil.TestLogger()).NewClient(), testutil.TestLogger())
}

func TestQueryMembershipsInCourse(t *testing.T) {
	store := db.NewStoreMock()
	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	store.On("FindMembershipsByCourseID", courseID).Return([]db.CourseMembership{
		{UserID: users[0], CourseID: courseID, Role: db.RoleAdministrator},
		{UserID: users[1], CourseID: courseID, Role: db.RoleStudent},
		{UserID: users[2], CourseID: courseID, Role: db.RoleStudent},
	}, nil)

	id := courseID
	memberships, err := newClient(t, store).QueryMembershipsInCourse(context.Background(), &id)
	require.NoError(t, err)
	assert.Equal(t, []CourseMembership{
		{UserID: users[0], CourseID: courseID, Role: "ADMINISTRATOR"},
		{UserID: users[1], CourseID: courseID, Role: "STUDENT"},
		{UserID: users[2], CourseID: courseID, Role: "STUDENT"},
	}, memberships)
}

func TestQueryMembershipsInCourseNoMembers(t *testing.T) {
	store := db.NewStoreMock()
	store.On("FindMembershipsByCourseID", courseID).Return(nil, nil).Once()

	id := courseID
	_, err := newClient(t, store).QueryMembershipsInCourse(context.Background(), &id)
	require.Error(t, err)
	assert.Equal(t, "Error fetching courseMemberships from CourseService: CourseMembership List is empty. "+
		"(query _internal_noauth_courseMembershipsByCourseId, Course ID "+courseID.String()+")", err.Error())
	assert.True(t, remote.IsKind(err, remote.EmptyResult))
	store.AssertExpectations(t)
}

func TestQueryMembershipsInCourseWrongCourseID(t *testing.T) {
	store := db.NewStoreMock()
	wrongID := uuid.New()
	store.On("FindMembershipsByCourseID", wrongID).
		Return(nil, db.NewNotFoundError("Entities(s) with id(s) "+wrongID.String()+" not found")).Once()

	_, err := newClient(t, store).QueryMembershipsInCourse(context.Background(), &wrongID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Entities(s) with id(s) "+wrongID.String()+" not found")
	assert.Contains(t, err.Error(), "(query _internal_noauth_courseMembershipsByCourseId, Course ID "+wrongID.String()+")")
	assert.True(t, remote.IsKind(err, remote.NotFound))
	store.AssertExpectations(t)
}

func TestQueryMembershipsInCourseNullCourseID(t *testing.T) {
	store := db.NewStoreMock()

	_, err := newClient(t, store).QueryMembershipsInCourse(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "Error fetching courseMemberships from CourseService: Course ID cannot be null", err.Error())
	assert.True(t, remote.IsKind(err, remote.InvalidInput))
	store.AssertNotCalled(t, "FindMembershipsByCourseID", courseID)
}

func TestQueryChaptersByCourseID(t *testing.T) {
	store := db.NewStoreMock()
	start := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	chapterID := uuid.New()
	store.On("FindChaptersByCourseID", courseID).Return([]db.Chapter{{
		ID:          chapterID,
		Title:       "Basics",
		Description: "Types and functions",
		Number:      1,
		StartDate:   start,
		EndDate:     start.Add(7 * 24 * time.Hour),
		CourseID:    courseID,
	}}, nil)
	store.On("FindCoursesByIDs", []uuid.UUID{courseID}).Return([]db.Course{{ID: courseID, Title: "Go"}}, nil)

	id := courseID
	chapters, err := newClient(t, store).QueryChaptersByCourseID(context.Background(), &id)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, chapterID, chapters[0].ID)
	assert.Equal(t, "Basics", chapters[0].Title)
	assert.True(t, start.Equal(chapters[0].StartDate))
	assert.Equal(t, courseID, chapters[0].Course.ID)
}

func TestQueryChaptersByCourseIDEmpty(t *testing.T) {
	store := db.NewStoreMock()
	store.On("FindChaptersByCourseID", courseID).Return(nil, nil)

	id := courseID
	chapters, err := newClient(t, store).QueryChaptersByCourseID(context.Background(), &id)
	require.NoError(t, err)
	assert.Empty(t, chapters)
}

func TestQueryChaptersByCourseIDRetriesTransportErrors(t *testing.T) {
	calls := 0
	transport := remote.TransportFunc(func(ctx context.Context, document string, variables map[string]interface{}) (*gql.Result, error) {
		calls++
		return nil, errors.New("connection refused")
	})
	client := NewCourseServiceClient(remote.NewClientConfig(transport, testutil.TestLogger()).NewClient(), testutil.TestLogger())

	id := courseID
	_, err := client.QueryChaptersByCourseID(context.Background(), &id)
	require.Error(t, err)
	assert.Equal(t, "connection refused", err.Error())
	assert.True(t, remote.IsKind(err, remote.TransportOrServerError))
	assert.Equal(t, remote.DefaultMaxAttempts, calls)
}
