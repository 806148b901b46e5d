package graphql

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/meitrex/course-service/auth"
	"github.com/meitrex/course-service/db"
	"github.com/meitrex/course-service/events"
	"github.com/meitrex/course-service/filter"
)

func (sg *SchemaGenerator) courses(params graphql.ResolveParams) (interface{}, error) {
	fields := sg.store.CourseFields()

	input, _ := params.Args["filter"].(map[string]interface{})
	expr, err := filter.Decode(input, fields)
	if err != nil {
		return nil, classify(err)
	}

	where, err := filter.Compose(expr, fields)
	if err != nil {
		return nil, classify(err)
	}

	order, err := sortOrder(fields, params.Args["sortBy"], params.Args["sortDirection"])
	if err != nil {
		return nil, classify(err)
	}

	courses, err := sg.store.FindCourses(params.Context, where, order)
	if err != nil {
		return nil, classify(err)
	}
	return nonNil(courses), nil
}

// sortOrder pairs each sort field with the direction at the same position, ascending by default.
func sortOrder(fields filter.Fields, sortBy interface{}, directions interface{}) ([]db.Order, error) {
	names, _ := sortBy.([]interface{})
	dirs, _ := directions.([]interface{})

	order := make([]db.Order, 0, len(names))
	for i, name := range names {
		field, _ := name.(string)
		info, ok := fields[field]
		if !ok {
			return nil, &filter.InvalidFieldError{Field: field}
		}
		desc := i < len(dirs) && dirs[i] == sortDescending
		order = append(order, db.Order{Column: info.Column, Desc: desc})
	}
	return order, nil
}

func (sg *SchemaGenerator) coursesByIds(params graphql.ResolveParams) (interface{}, error) {
	ids, err := uuidList(params.Args["ids"])
	if err != nil {
		return nil, err
	}
	courses, err := sg.store.FindCoursesByIDs(params.Context, ids)
	if err != nil {
		return nil, classify(err)
	}
	return nonNil(courses), nil
}

func (sg *SchemaGenerator) chaptersByCourseId(params graphql.ResolveParams) (interface{}, error) {
	chapters, err := sg.store.FindChaptersByCourseID(params.Context, params.Args["courseId"].(uuid.UUID))
	if err != nil {
		return nil, classify(err)
	}
	return nonNil(chapters), nil
}

func (sg *SchemaGenerator) userIdsByCourseId(params graphql.ResolveParams) (interface{}, error) {
	memberships, err := sg.store.FindMembershipsByCourseID(params.Context, params.Args["courseId"].(uuid.UUID))
	if err != nil {
		return nil, classify(err)
	}
	ids := make([]uuid.UUID, 0, len(memberships))
	for _, membership := range memberships {
		ids = append(ids, membership.UserID)
	}
	return ids, nil
}

func (sg *SchemaGenerator) membershipsByCourseId(params graphql.ResolveParams) (interface{}, error) {
	memberships, err := sg.store.FindMembershipsByCourseID(params.Context, params.Args["courseId"].(uuid.UUID))
	if err != nil {
		return nil, classify(err)
	}
	return nonNil(memberships), nil
}

func (sg *SchemaGenerator) membershipsByUserId(params graphql.ResolveParams) (interface{}, error) {
	var available *bool
	if value, ok := params.Args["availabilityFilter"].(bool); ok {
		available = &value
	}
	memberships, err := sg.store.FindMembershipsByUserID(params.Context, params.Args["userId"].(uuid.UUID), available)
	if err != nil {
		return nil, classify(err)
	}
	return nonNil(memberships), nil
}

func (sg *SchemaGenerator) courseChapters(params graphql.ResolveParams) (interface{}, error) {
	course := params.Source.(db.Course)
	if course.Chapters != nil {
		return course.Chapters, nil
	}
	chapters, err := sg.store.FindChaptersByCourseID(params.Context, course.ID)
	if err != nil {
		return nil, classify(err)
	}
	return nonNil(chapters), nil
}

func (sg *SchemaGenerator) courseMemberships(params graphql.ResolveParams) (interface{}, error) {
	course := params.Source.(db.Course)
	memberships, err := sg.store.FindMembershipsByCourseID(params.Context, course.ID)
	if err != nil {
		return nil, classify(err)
	}
	return nonNil(memberships), nil
}

func (sg *SchemaGenerator) chapterCourse(params graphql.ResolveParams) (interface{}, error) {
	return sg.courseByID(params, params.Source.(db.Chapter).CourseID)
}

func (sg *SchemaGenerator) membershipCourse(params graphql.ResolveParams) (interface{}, error) {
	return sg.courseByID(params, params.Source.(db.CourseMembership).CourseID)
}

func (sg *SchemaGenerator) courseByID(params graphql.ResolveParams, id uuid.UUID) (interface{}, error) {
	courses, err := sg.store.FindCoursesByIDs(params.Context, []uuid.UUID{id})
	if err != nil {
		return nil, classify(err)
	}
	return courses[0], nil
}

func resolveYearDivision(params graphql.ResolveParams) (interface{}, error) {
	division := params.Source.(db.Course).YearDivision
	if division == nil {
		return nil, nil
	}
	return *division, nil
}

func (sg *SchemaGenerator) createCourse(params graphql.ResolveParams) (interface{}, error) {
	var input courseInput
	if err := decodeInput(params.Args["input"], &input); err != nil {
		return nil, err
	}
	course := input.toCourse()
	if err := sg.store.CreateCourse(params.Context, course); err != nil {
		return nil, classify(err)
	}
	sg.publisher.NotifyCourseChanges(params.Context, course.ID, events.Create)
	return *course, nil
}

func (sg *SchemaGenerator) updateCourse(params graphql.ResolveParams) (interface{}, error) {
	var input courseInput
	if err := decodeInput(params.Args["input"], &input); err != nil {
		return nil, err
	}
	course := input.toCourse()
	if err := sg.store.UpdateCourse(params.Context, course); err != nil {
		return nil, classify(err)
	}
	sg.publisher.NotifyCourseChanges(params.Context, course.ID, events.Update)
	return *course, nil
}

func (sg *SchemaGenerator) deleteCourse(params graphql.ResolveParams) (interface{}, error) {
	id := params.Args["id"].(uuid.UUID)
	if err := sg.store.DeleteCourse(params.Context, id); err != nil {
		return nil, classify(err)
	}
	sg.publisher.NotifyCourseChanges(params.Context, id, events.Delete)
	return id, nil
}

func (sg *SchemaGenerator) createChapter(params graphql.ResolveParams) (interface{}, error) {
	var input chapterInput
	if err := decodeInput(params.Args["input"], &input); err != nil {
		return nil, err
	}
	chapter := input.toChapter()
	if err := sg.store.CreateChapter(params.Context, chapter); err != nil {
		return nil, classify(err)
	}
	sg.publisher.NotifyChapterChanges(params.Context, []uuid.UUID{chapter.ID}, events.Create)
	return *chapter, nil
}

func (sg *SchemaGenerator) deleteChapter(params graphql.ResolveParams) (interface{}, error) {
	id := params.Args["id"].(uuid.UUID)
	if err := sg.store.DeleteChapter(params.Context, id); err != nil {
		return nil, classify(err)
	}
	sg.publisher.NotifyChapterChanges(params.Context, []uuid.UUID{id}, events.Delete)
	return id, nil
}

func (sg *SchemaGenerator) createMembership(params graphql.ResolveParams) (interface{}, error) {
	var input membershipInput
	if err := decodeInput(params.Args["input"], &input); err != nil {
		return nil, err
	}
	membership := input.toMembership()
	if err := sg.store.CreateMembership(params.Context, membership); err != nil {
		return nil, classify(err)
	}
	return *membership, nil
}

func (sg *SchemaGenerator) updateMembership(params graphql.ResolveParams) (interface{}, error) {
	var input membershipInput
	if err := decodeInput(params.Args["input"], &input); err != nil {
		return nil, err
	}
	membership := input.toMembership()
	if err := sg.store.UpdateMembership(params.Context, membership); err != nil {
		return nil, classify(err)
	}
	return *membership, nil
}

func (sg *SchemaGenerator) deleteMembership(params graphql.ResolveParams) (interface{}, error) {
	var input membershipInput
	if err := decodeInput(params.Args["input"], &input); err != nil {
		return nil, err
	}
	removed, err := sg.store.DeleteMembership(params.Context, input.UserID, input.CourseID)
	if err != nil {
		return nil, classify(err)
	}
	return *removed, nil
}

func (sg *SchemaGenerator) joinCourse(params graphql.ResolveParams) (interface{}, error) {
	user := auth.ContextUser(params.Context)
	if user == nil {
		return nil, errNoCurrentUser
	}
	membership := &db.CourseMembership{
		UserID:   user.ID,
		CourseID: params.Args["courseId"].(uuid.UUID),
		Role:     db.RoleStudent,
	}
	if err := sg.store.CreateMembership(params.Context, membership); err != nil {
		return nil, classify(err)
	}
	sg.logger.Info("user joined course", "userId", user.ID, "courseId", membership.CourseID)
	return *membership, nil
}

func (sg *SchemaGenerator) leaveCourse(params graphql.ResolveParams) (interface{}, error) {
	user := auth.ContextUser(params.Context)
	if user == nil {
		return nil, errNoCurrentUser
	}
	removed, err := sg.store.DeleteMembership(params.Context, user.ID, params.Args["courseId"].(uuid.UUID))
	if err != nil {
		return nil, classify(err)
	}
	sg.logger.Info("user left course", "userId", user.ID, "courseId", removed.CourseID)
	return *removed, nil
}

func uuidList(value interface{}) ([]uuid.UUID, error) {
	items, _ := value.([]interface{})
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		id, ok := item.(uuid.UUID)
		if !ok {
			return nil, &ValidationError{msg: fmt.Sprintf("invalid id %v", item)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// nonNil keeps empty results serializable for non-null list fields.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
