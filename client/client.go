// Package client queries the course service from other services.
package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meitrex/course-service/log"
	"github.com/meitrex/course-service/remote"
)

const (
	chaptersByCourseIDQuery = `query($courseId: UUID!) {
  _internal_noauth_chaptersByCourseId(courseId: $courseId) {
    id
    title
    description
    number
    startDate
    endDate
    course {
      id
    }
  }
}`
	chaptersByCourseIDField = "_internal_noauth_chaptersByCourseId"

	membershipsByCourseIDQuery = `query($courseId: UUID!) {
  _internal_noauth_courseMembershipsByCourseId(courseId: $courseId) {
    userId
    courseId
    role
  }
}`
	membershipsByCourseIDField = "_internal_noauth_courseMembershipsByCourseId"
)

type Chapter struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Number      int       `json:"number"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Course      struct {
		ID uuid.UUID `json:"id"`
	} `json:"course"`
}

type CourseMembership struct {
	UserID   uuid.UUID `json:"userId"`
	CourseID uuid.UUID `json:"courseId"`
	Role     string    `json:"role"`
}

// CourseServiceClient runs the internal course service queries. Errors are *remote.Error.
type CourseServiceClient struct {
	client *remote.Client
	logger log.Logger
}

func NewCourseServiceClient(client *remote.Client, logger log.Logger) *CourseServiceClient {
	return &CourseServiceClient{client: client, logger: logger}
}

func (c *CourseServiceClient) QueryChaptersByCourseID(ctx context.Context, courseID *uuid.UUID) ([]Chapter, error) {
	c.logger.Info("querying chapters by course id", "courseId", idString(courseID))
	req := remote.NewRequest(chaptersByCourseIDQuery, chaptersByCourseIDField).
		WithVariable("courseId", courseID).
		WithRequired("courseId", "Course ID").
		WithErrorPrefix("Error fetching chapters from CourseService")
	return remote.Execute[Chapter](ctx, c.client, req)
}

// QueryMembershipsInCourse fails with an EmptyResult error when the course has no members.
func (c *CourseServiceClient) QueryMembershipsInCourse(ctx context.Context, courseID *uuid.UUID) ([]CourseMembership, error) {
	c.logger.Info("querying memberships in course", "courseId", idString(courseID))
	req := remote.NewRequest(membershipsByCourseIDQuery, membershipsByCourseIDField).
		WithVariable("courseId", courseID).
		WithRequired("courseId", "Course ID").
		WithEmptyIsError("CourseMembership List is empty.").
		WithErrorPrefix("Error fetching courseMemberships from CourseService")
	return remote.Execute[CourseMembership](ctx, c.client, req)
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return "<nil>"
	}
	return id.String()
}
