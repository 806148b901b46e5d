package graphql

import (
	"fmt"
	"sort"

	"github.com/graphql-go/graphql"
	"github.com/meitrex/course-service/config"
	"github.com/meitrex/course-service/db"
	"github.com/meitrex/course-service/events"
	"github.com/meitrex/course-service/log"
)

var yearDivisionEnum = buildEnum("YearDivision", db.YearDivisions)

var userRoleEnum = buildEnum("UserRoleInCourse", db.Roles)

const (
	sortAscending  = "ASC"
	sortDescending = "DESC"
)

var sortDirectionEnum = buildEnum("SortDirection", []string{sortAscending, sortDescending})

func buildEnum[T ~string](name string, values []T) *graphql.Enum {
	configs := make(graphql.EnumValueConfigMap, len(values))
	for _, value := range values {
		configs[string(value)] = &graphql.EnumValueConfig{Value: value}
	}
	return graphql.NewEnum(graphql.EnumConfig{Name: name, Values: configs})
}

// SchemaGenerator builds the course service schema on top of a store.
type SchemaGenerator struct {
	store               db.Store
	naming              config.NamingConvention
	supportedOperations config.Operations
	publisher           events.Publisher
	logger              log.Logger
}

type courseGraphQLSchema struct {
	courseType     *graphql.Object
	chapterType    *graphql.Object
	membershipType *graphql.Object
	orderEnum      *graphql.Enum
}

func NewSchemaGenerator(store db.Store, cfg config.Config) *SchemaGenerator {
	return &SchemaGenerator{
		store:               store,
		naming:              cfg.Naming(),
		supportedOperations: cfg.SupportedOperations(),
		publisher:           cfg.Publisher(),
		logger:              cfg.Logger(),
	}
}

// Build creates the schema. Mutation fields are only added for the supported operations.
func (sg *SchemaGenerator) Build() (graphql.Schema, error) {
	s := sg.buildTypes()

	schemaConfig := graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: sg.buildQueries(s),
		}),
	}

	if mutations := sg.buildMutations(s); len(mutations) > 0 {
		schemaConfig.Mutation = graphql.NewObject(graphql.ObjectConfig{
			Name:   "Mutation",
			Fields: mutations,
		})
	}

	schema, err := graphql.NewSchema(schemaConfig)
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("unable to build graphql schema: %s", err)
	}
	return schema, nil
}

func (sg *SchemaGenerator) buildTypes() *courseGraphQLSchema {
	s := &courseGraphQLSchema{}
	s.orderEnum = sg.buildOrderEnum()

	s.courseType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Course",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":           {Type: graphql.NewNonNull(uuidScalar)},
				"title":        {Type: graphql.NewNonNull(graphql.String)},
				"description":  {Type: graphql.NewNonNull(graphql.String)},
				"startDate":    {Type: graphql.NewNonNull(dateTime)},
				"endDate":      {Type: graphql.NewNonNull(dateTime)},
				"published":    {Type: graphql.NewNonNull(graphql.Boolean)},
				"startYear":    {Type: graphql.Int},
				"yearDivision": {Type: yearDivisionEnum, Resolve: resolveYearDivision},
				"chapters": {
					Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(s.chapterType))),
					Resolve: sg.courseChapters,
				},
				"memberships": {
					Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(s.membershipType))),
					Resolve: sg.courseMemberships,
				},
			}
		}),
	})

	s.chapterType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Chapter",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":                 {Type: graphql.NewNonNull(uuidScalar)},
				"title":              {Type: graphql.NewNonNull(graphql.String)},
				"description":        {Type: graphql.NewNonNull(graphql.String)},
				"number":             {Type: graphql.NewNonNull(graphql.Int)},
				"startDate":          {Type: graphql.NewNonNull(dateTime)},
				"endDate":            {Type: graphql.NewNonNull(dateTime)},
				"suggestedStartDate": {Type: dateTime},
				"suggestedEndDate":   {Type: dateTime},
				"courseId":           {Type: graphql.NewNonNull(uuidScalar)},
				"course":             {Type: graphql.NewNonNull(s.courseType), Resolve: sg.chapterCourse},
			}
		}),
	})

	s.membershipType = graphql.NewObject(graphql.ObjectConfig{
		Name: "CourseMembership",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"userId":   {Type: graphql.NewNonNull(uuidScalar)},
				"courseId": {Type: graphql.NewNonNull(uuidScalar)},
				"role":     {Type: graphql.NewNonNull(userRoleEnum)},
				"course":   {Type: graphql.NewNonNull(s.courseType), Resolve: sg.membershipCourse},
			}
		}),
	})

	return s
}

// buildOrderEnum exposes every filterable course field as a sort key, e.g. START_DATE.
func (sg *SchemaGenerator) buildOrderEnum() *graphql.Enum {
	fields := sg.store.CourseFields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(graphql.EnumValueConfigMap, len(names))
	for _, name := range names {
		values[sg.naming.ToGraphQLEnumValue(name)] = &graphql.EnumValueConfig{
			Value:       name,
			Description: fmt.Sprintf("Order courses by %s", name),
		}
	}
	return graphql.NewEnum(graphql.EnumConfig{Name: "CourseSortField", Values: values})
}

func (sg *SchemaGenerator) buildQueries(s *courseGraphQLSchema) graphql.Fields {
	courseList := graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(s.courseType)))
	membershipList := graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(s.membershipType)))
	requiredID := &graphql.ArgumentConfig{Type: graphql.NewNonNull(uuidScalar)}

	return graphql.Fields{
		"courses": {
			Type: courseList,
			Args: graphql.FieldConfigArgument{
				"filter":        {Type: courseFilterInput},
				"sortBy":        {Type: graphql.NewList(graphql.NewNonNull(s.orderEnum))},
				"sortDirection": {Type: graphql.NewList(graphql.NewNonNull(sortDirectionEnum))},
			},
			Resolve: sg.courses,
		},
		"coursesByIds": {
			Type: courseList,
			Args: graphql.FieldConfigArgument{
				"ids": {Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(uuidScalar)))},
			},
			Resolve: sg.coursesByIds,
		},
		"_internal_noauth_chaptersByCourseId": {
			Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(s.chapterType))),
			Args:    graphql.FieldConfigArgument{"courseId": requiredID},
			Resolve: sg.chaptersByCourseId,
		},
		"_internal_userIdsByCourseId": {
			Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(uuidScalar))),
			Args:    graphql.FieldConfigArgument{"courseId": requiredID},
			Resolve: sg.userIdsByCourseId,
		},
		"_internal_noauth_courseMembershipsByCourseId": {
			Type:    membershipList,
			Args:    graphql.FieldConfigArgument{"courseId": requiredID},
			Resolve: sg.membershipsByCourseId,
		},
		"_internal_noauth_courseMembershipsByUserId": {
			Type: membershipList,
			Args: graphql.FieldConfigArgument{
				"userId":             requiredID,
				"availabilityFilter": {Type: graphql.Boolean},
			},
			Resolve: sg.membershipsByUserId,
		},
	}
}

func (sg *SchemaGenerator) buildMutations(s *courseGraphQLSchema) graphql.Fields {
	fields := graphql.Fields{}
	ops := sg.supportedOperations
	requiredID := &graphql.ArgumentConfig{Type: graphql.NewNonNull(uuidScalar)}

	if ops.IsSupported(config.CourseWrite) {
		fields["createCourse"] = &graphql.Field{
			Type:    graphql.NewNonNull(s.courseType),
			Args:    graphql.FieldConfigArgument{"input": {Type: graphql.NewNonNull(createCourseInput)}},
			Resolve: sg.createCourse,
		}
		fields["updateCourse"] = &graphql.Field{
			Type:    graphql.NewNonNull(s.courseType),
			Args:    graphql.FieldConfigArgument{"input": {Type: graphql.NewNonNull(updateCourseInput)}},
			Resolve: sg.updateCourse,
		}
		fields["deleteCourse"] = &graphql.Field{
			Type:    graphql.NewNonNull(uuidScalar),
			Args:    graphql.FieldConfigArgument{"id": requiredID},
			Resolve: sg.deleteCourse,
		}
	}

	if ops.IsSupported(config.ChapterWrite) {
		fields["createChapter"] = &graphql.Field{
			Type:    graphql.NewNonNull(s.chapterType),
			Args:    graphql.FieldConfigArgument{"input": {Type: graphql.NewNonNull(createChapterInput)}},
			Resolve: sg.createChapter,
		}
		fields["deleteChapter"] = &graphql.Field{
			Type:    graphql.NewNonNull(uuidScalar),
			Args:    graphql.FieldConfigArgument{"id": requiredID},
			Resolve: sg.deleteChapter,
		}
	}

	if ops.IsSupported(config.MembershipWrite) {
		membershipArgs := graphql.FieldConfigArgument{"input": {Type: graphql.NewNonNull(courseMembershipInput)}}
		fields["createMembership"] = &graphql.Field{
			Type:    graphql.NewNonNull(s.membershipType),
			Args:    membershipArgs,
			Resolve: sg.createMembership,
		}
		fields["updateMembership"] = &graphql.Field{
			Type:    graphql.NewNonNull(s.membershipType),
			Args:    membershipArgs,
			Resolve: sg.updateMembership,
		}
		fields["deleteMembership"] = &graphql.Field{
			Type:    graphql.NewNonNull(s.membershipType),
			Args:    membershipArgs,
			Resolve: sg.deleteMembership,
		}
	}

	if ops.IsSupported(config.CourseJoin) {
		fields["joinCourse"] = &graphql.Field{
			Type:    graphql.NewNonNull(s.membershipType),
			Args:    graphql.FieldConfigArgument{"courseId": requiredID},
			Resolve: sg.joinCourse,
		}
		fields["leaveCourse"] = &graphql.Field{
			Type:    graphql.NewNonNull(s.membershipType),
			Args:    graphql.FieldConfigArgument{"courseId": requiredID},
			Resolve: sg.leaveCourse,
		}
	}

	return fields
}
