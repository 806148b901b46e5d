package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/meitrex/course-service/config"
	"github.com/meitrex/course-service/filter"
	"github.com/stretchr/testify/mock"
)

type StoreMock struct {
	mock.Mock
	fields filter.Fields
}

func NewStoreMock() *StoreMock {
	return &StoreMock{fields: NewCourseFields(config.NewDefaultNaming())}
}

func (o *StoreMock) CourseFields() filter.Fields {
	return o.fields
}

func (o *StoreMock) FindCourses(ctx context.Context, where filter.Predicate, order []Order) ([]Course, error) {
	args := o.Called(where, order)
	return courses(args.Get(0)), args.Error(1)
}

func (o *StoreMock) FindCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]Course, error) {
	args := o.Called(ids)
	return courses(args.Get(0)), args.Error(1)
}

func (o *StoreMock) CreateCourse(ctx context.Context, course *Course) error {
	return o.Called(course).Error(0)
}

func (o *StoreMock) UpdateCourse(ctx context.Context, course *Course) error {
	return o.Called(course).Error(0)
}

func (o *StoreMock) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return o.Called(id).Error(0)
}

func (o *StoreMock) FindChaptersByCourseID(ctx context.Context, courseID uuid.UUID) ([]Chapter, error) {
	args := o.Called(courseID)
	var chapters []Chapter
	if value := args.Get(0); value != nil {
		chapters = value.([]Chapter)
	}
	return chapters, args.Error(1)
}

func (o *StoreMock) CreateChapter(ctx context.Context, chapter *Chapter) error {
	return o.Called(chapter).Error(0)
}

func (o *StoreMock) DeleteChapter(ctx context.Context, id uuid.UUID) error {
	return o.Called(id).Error(0)
}

func (o *StoreMock) FindMembershipsByCourseID(ctx context.Context, courseID uuid.UUID) ([]CourseMembership, error) {
	args := o.Called(courseID)
	return memberships(args.Get(0)), args.Error(1)
}

func (o *StoreMock) FindMembershipsByUserID(ctx context.Context, userID uuid.UUID, available *bool) ([]CourseMembership, error) {
	args := o.Called(userID, available)
	return memberships(args.Get(0)), args.Error(1)
}

func (o *StoreMock) CreateMembership(ctx context.Context, membership *CourseMembership) error {
	return o.Called(membership).Error(0)
}

func (o *StoreMock) UpdateMembership(ctx context.Context, membership *CourseMembership) error {
	return o.Called(membership).Error(0)
}

func (o *StoreMock) DeleteMembership(ctx context.Context, userID uuid.UUID, courseID uuid.UUID) (*CourseMembership, error) {
	args := o.Called(userID, courseID)
	var membership *CourseMembership
	if value := args.Get(0); value != nil {
		membership = value.(*CourseMembership)
	}
	return membership, args.Error(1)
}

func courses(value interface{}) []Course {
	if value == nil {
		return nil
	}
	return value.([]Course)
}

func memberships(value interface{}) []CourseMembership {
	if value == nil {
		return nil
	}
	return value.([]CourseMembership)
}
