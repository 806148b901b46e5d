package events

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type PublisherMock struct {
	mock.Mock
}

func NewPublisherMock() *PublisherMock {
	return &PublisherMock{}
}

func (o *PublisherMock) NotifyChapterChanges(ctx context.Context, chapterIDs []uuid.UUID, operation CrudOperation) {
	o.Called(chapterIDs, operation)
}

func (o *PublisherMock) NotifyCourseChanges(ctx context.Context, courseID uuid.UUID, operation CrudOperation) {
	o.Called(courseID, operation)
}
