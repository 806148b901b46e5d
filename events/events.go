// Package events announces changes of courses and chapters to other services.
package events

import (
	"context"

	"github.com/google/uuid"
	"github.com/meitrex/course-service/log"
)

type CrudOperation string

const (
	Create CrudOperation = "CREATE"
	Update CrudOperation = "UPDATE"
	Delete CrudOperation = "DELETE"
)

const (
	ChapterChangedTopic = "chapter-changed"
	CourseChangedTopic  = "course-changed"
)

type ChapterChangeEvent struct {
	Chapters  []uuid.UUID   `json:"chapters"`
	Operation CrudOperation `json:"operation"`
}

type CourseChangeEvent struct {
	CourseID  uuid.UUID     `json:"courseId"`
	Operation CrudOperation `json:"operation"`
}

// Publisher is notified only after a change has been stored. Delivery failures are logged and never
// reported back to the caller, whose change has already been committed.
type Publisher interface {
	NotifyChapterChanges(ctx context.Context, chapterIDs []uuid.UUID, operation CrudOperation)
	NotifyCourseChanges(ctx context.Context, courseID uuid.UUID, operation CrudOperation)
}

type LoggingPublisher struct {
	logger log.Logger
}

// NewLoggingPublisher only logs the events. It is used when no broker is configured.
func NewLoggingPublisher(logger log.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger.With("component", "events")}
}

func (p *LoggingPublisher) NotifyChapterChanges(_ context.Context, chapterIDs []uuid.UUID, operation CrudOperation) {
	p.logger.Info("chapters changed",
		"topic", ChapterChangedTopic,
		"chapters", chapterIDs,
		"operation", string(operation))
}

func (p *LoggingPublisher) NotifyCourseChanges(_ context.Context, courseID uuid.UUID, operation CrudOperation) {
	p.logger.Info("course changed",
		"topic", CourseChangedTopic,
		"courseId", courseID,
		"operation", string(operation))
}
