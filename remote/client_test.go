package remote

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/meitrex/course-service/internal/testutil"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"go.uber.org/atomic"
)

const chaptersQuery = `query($courseId: UUID!) {
  chapters(courseId: $courseId) {
    id
    title
    number
    startDate
  }
}`

type chapterRow struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Number    int       `json:"number"`
	StartDate time.Time `json:"startDate"`
}

func TestRemote(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Remote query client test suite")
}

func chaptersResult(rows ...interface{}) *graphql.Result {
	return &graphql.Result{Data: map[string]interface{}{"chapters": rows}}
}

func chapterData(id uuid.UUID, title string) map[string]interface{} {
	return map[string]interface{}{
		"id":        id.String(),
		"title":     title,
		"number":    float64(1),
		"startDate": "2024-04-15T08:00:00Z",
	}
}

var _ = Describe("Client", func() {
	var (
		ctx       context.Context
		courseID  uuid.UUID
		transport *TransportMock
		client    *Client
	)

	newRequest := func(id interface{}) *Request {
		return NewRequest(chaptersQuery, "chapters").
			WithErrorPrefix("Error fetching chapters from CourseService").
			WithVariable("courseId", id).
			WithRequired("courseId", "Course ID")
	}

	BeforeEach(func() {
		ctx = context.Background()
		courseID = uuid.New()
		transport = NewTransportMock()
		client = NewClientConfig(transport, testutil.TestLogger()).NewClient()
	})

	It("should reject a missing identifier without calling the transport", func() {
		rows, err := Execute[chapterRow](ctx, client, newRequest(nil))
		Expect(rows).To(BeNil())
		Expect(IsKind(err, InvalidInput)).To(BeTrue())
		Expect(err.Error()).To(Equal("Error fetching chapters from CourseService: Course ID cannot be null"))
		Expect(transport.Calls).To(HaveLen(0))

		_, err = Execute[chapterRow](ctx, client, newRequest(uuid.Nil))
		Expect(IsKind(err, InvalidInput)).To(BeTrue())
		Expect(transport.Calls).To(HaveLen(0))
	})

	It("should decode the extracted rows", func() {
		transport.On("Execute", chaptersQuery, map[string]interface{}{"courseId": courseID}).
			Return(chaptersResult(chapterData(courseID, "Intro")), nil)

		rows, err := Execute[chapterRow](ctx, client, newRequest(courseID))
		Expect(err).ToNot(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].ID).To(Equal(courseID))
		Expect(rows[0].Title).To(Equal("Intro"))
		Expect(rows[0].Number).To(Equal(1))
		Expect(rows[0].StartDate.Equal(time.Date(2024, 4, 15, 8, 0, 0, 0, time.UTC))).To(BeTrue())
		Expect(transport.Calls).To(HaveLen(1))
	})

	It("should succeed on the third attempt after two transport errors", func() {
		transport.On("Execute", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection reset by peer")).Times(2)
		transport.On("Execute", mock.Anything, mock.Anything).
			Return(chaptersResult(chapterData(courseID, "Intro")), nil).Once()

		before := promtest.ToFloat64(metricsAttempts.WithLabelValues("chapters", "TransportOrServerError"))

		rows, err := Execute[chapterRow](ctx, client, newRequest(courseID))
		Expect(err).ToNot(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(transport.Calls).To(HaveLen(3))

		after := promtest.ToFloat64(metricsAttempts.WithLabelValues("chapters", "TransportOrServerError"))
		Expect(after - before).To(Equal(float64(2)))
	})

	It("should surface the last transport error unchanged after exhausting attempts", func() {
		calls := atomic.NewInt32(0)
		client = NewClientConfig(TransportFunc(func(ctx context.Context, document string, variables map[string]interface{}) (*graphql.Result, error) {
			return nil, fmt.Errorf("connection refused (%d)", calls.Inc())
		}), testutil.TestLogger()).NewClient()

		rows, err := Execute[chapterRow](ctx, client, newRequest(courseID))
		Expect(rows).To(BeNil())
		Expect(calls.Load()).To(Equal(int32(3)))
		Expect(IsKind(err, TransportOrServerError)).To(BeTrue())
		Expect(err.Error()).To(Equal("connection refused (3)"))
	})

	It("should not retry a field access error", func() {
		transport.On("Execute", mock.Anything, mock.Anything).
			Return(&graphql.Result{Data: map[string]interface{}{"courses": []interface{}{}}}, nil)

		_, err := Execute[chapterRow](ctx, client, newRequest(courseID))
		Expect(IsKind(err, FieldAccessError)).To(BeTrue())
		Expect(transport.Calls).To(HaveLen(1))
	})

	It("should not retry an empty result that is an error", func() {
		transport.On("Execute", mock.Anything, mock.Anything).Return(chaptersResult(), nil)

		_, err := Execute[chapterRow](ctx, client, newRequest(courseID).WithEmptyIsError("Chapter List is empty."))
		Expect(IsKind(err, EmptyResult)).To(BeTrue())
		Expect(err.Error()).To(Equal("Error fetching chapters from CourseService: Chapter List is empty. (query chapters, Course ID " + courseID.String() + ")"))
		Expect(transport.Calls).To(HaveLen(1))
	})

	It("should return an empty list when emptiness is allowed", func() {
		transport.On("Execute", mock.Anything, mock.Anything).Return(chaptersResult(), nil)

		rows, err := Execute[chapterRow](ctx, client, newRequest(courseID))
		Expect(err).ToNot(HaveOccurred())
		Expect(rows).To(BeEmpty())
	})

	It("should report rows that cannot be decoded as a field access error", func() {
		row := chapterData(courseID, "Intro")
		row["number"] = "one"
		transport.On("Execute", mock.Anything, mock.Anything).Return(chaptersResult(row), nil)

		_, err := Execute[chapterRow](ctx, client, newRequest(courseID))
		Expect(IsKind(err, FieldAccessError)).To(BeTrue())
		Expect(transport.Calls).To(HaveLen(1))
	})

	It("should unwrap typed errors wrapped by the transport", func() {
		typed := &Error{Kind: NotFound, Message: "course is gone"}
		transport.On("Execute", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", typed)))

		_, err := Execute[chapterRow](ctx, client, newRequest(courseID))
		Expect(err).To(BeIdenticalTo(typed))
		Expect(transport.Calls).To(HaveLen(1))
	})

	It("should honor a configured attempt count", func() {
		transport.On("Execute", mock.Anything, mock.Anything).Return(nil, errors.New("unavailable"))
		client = NewClientConfig(transport, testutil.TestLogger()).WithMaxAttempts(5).NewClient()

		_, err := Execute[chapterRow](ctx, client, newRequest(courseID))
		Expect(IsKind(err, TransportOrServerError)).To(BeTrue())
		Expect(transport.Calls).To(HaveLen(5))
		Expect(client.MaxAttempts()).To(Equal(5))
	})

	It("should wait between attempts using the configured back-off", func() {
		transport.On("Execute", mock.Anything, mock.Anything).Return(nil, errors.New("unavailable"))
		client = NewClientConfig(transport, testutil.TestLogger()).
			WithBackOff(func() backoff.BackOff { return backoff.NewConstantBackOff(20 * time.Millisecond) }).
			NewClient()

		start := time.Now()
		_, err := Execute[chapterRow](ctx, client, newRequest(courseID))
		Expect(err).To(HaveOccurred())
		Expect(transport.Calls).To(HaveLen(3))
		Expect(time.Since(start)).To(BeNumerically(">=", 40*time.Millisecond))
	})

	It("should stop when the back-off gives up", func() {
		transport.On("Execute", mock.Anything, mock.Anything).Return(nil, errors.New("unavailable"))
		client = NewClientConfig(transport, testutil.TestLogger()).
			WithBackOff(func() backoff.BackOff { return &backoff.StopBackOff{} }).
			NewClient()

		_, err := Execute[chapterRow](ctx, client, newRequest(courseID))
		Expect(IsKind(err, TransportOrServerError)).To(BeTrue())
		Expect(transport.Calls).To(HaveLen(1))
	})

	It("should bound every attempt with the configured timeout", func() {
		calls := atomic.NewInt32(0)
		client = NewClientConfig(TransportFunc(func(ctx context.Context, document string, variables map[string]interface{}) (*graphql.Result, error) {
			calls.Inc()
			<-ctx.Done()
			return nil, ctx.Err()
		}), testutil.TestLogger()).WithAttemptTimeout(10 * time.Millisecond).NewClient()

		_, err := Execute[chapterRow](ctx, client, newRequest(courseID))
		Expect(IsKind(err, TransportOrServerError)).To(BeTrue())
		Expect(err.Error()).To(Equal(context.DeadlineExceeded.Error()))
		Expect(calls.Load()).To(Equal(int32(3)))
	})

	It("should stop retrying once the caller's context is cancelled", func() {
		cancelled, cancel := context.WithCancel(ctx)
		calls := atomic.NewInt32(0)
		client = NewClientConfig(TransportFunc(func(ctx context.Context, document string, variables map[string]interface{}) (*graphql.Result, error) {
			calls.Inc()
			cancel()
			return nil, errors.New("unavailable")
		}), testutil.TestLogger()).NewClient()

		_, err := Execute[chapterRow](cancelled, client, newRequest(courseID))
		Expect(IsKind(err, TransportOrServerError)).To(BeTrue())
		Expect(calls.Load()).To(Equal(int32(1)))
	})

	It("should decode a single entity", func() {
		transport.On("Execute", mock.Anything, mock.Anything).
			Return(&graphql.Result{Data: map[string]interface{}{"chapters": chapterData(courseID, "Intro")}}, nil)

		row, err := ExecuteOne[chapterRow](ctx, client, newRequest(courseID))
		Expect(err).ToNot(HaveOccurred())
		Expect(row.Title).To(Equal("Intro"))
	})

	It("should leave the request usable for lists after a single entity query", func() {
		transport.On("Execute", mock.Anything, mock.Anything).
			Return(&graphql.Result{Data: map[string]interface{}{"chapters": chapterData(courseID, "Intro")}}, nil).Once()
		transport.On("Execute", mock.Anything, mock.Anything).Return(chaptersResult(), nil).Once()

		req := newRequest(&courseID)
		_, err := ExecuteOne[chapterRow](ctx, client, req)
		Expect(err).ToNot(HaveOccurred())

		rows, err := Execute[chapterRow](ctx, client, req)
		Expect(err).ToNot(HaveOccurred())
		Expect(rows).To(BeEmpty())
	})

	It("should name the query and the identifier of a missing entity", func() {
		transport.On("Execute", mock.Anything, mock.Anything).
			Return(&graphql.Result{Data: map[string]interface{}{"chapters": nil}}, nil)

		_, err := ExecuteOne[chapterRow](ctx, client, newRequest(&courseID))
		Expect(IsKind(err, NotFound)).To(BeTrue())
		Expect(err.Error()).To(Equal("Error fetching chapters from CourseService: chapters returned no entity (query chapters, Course ID " + courseID.String() + ")"))
		Expect(transport.Calls).To(HaveLen(1))
	})
})
