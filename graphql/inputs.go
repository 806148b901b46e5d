package graphql

import (
	"time"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/meitrex/course-service/db"
	"github.com/mitchellh/mapstructure"
)

type courseInput struct {
	ID           uuid.UUID        `mapstructure:"id"`
	Title        string           `mapstructure:"title" label:"Title" validate:"required,max=255"`
	Description  string           `mapstructure:"description" label:"Description" validate:"max=3000"`
	StartDate    time.Time        `mapstructure:"startDate" label:"Start date" validate:"required,ltefield=EndDate"`
	EndDate      time.Time        `mapstructure:"endDate" label:"End date" validate:"required"`
	Published    bool             `mapstructure:"published"`
	StartYear    *int             `mapstructure:"startYear" label:"Start year" validate:"omitempty,min=1900,max=9999"`
	YearDivision *db.YearDivision `mapstructure:"yearDivision"`
}

func (in courseInput) toCourse() *db.Course {
	return &db.Course{
		ID:           in.ID,
		Title:        in.Title,
		Description:  in.Description,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Published:    in.Published,
		StartYear:    in.StartYear,
		YearDivision: in.YearDivision,
	}
}

type chapterInput struct {
	CourseID           uuid.UUID  `mapstructure:"courseId" label:"Course id" validate:"required"`
	Title              string     `mapstructure:"title" label:"Title" validate:"required,max=255"`
	Description        string     `mapstructure:"description" label:"Description" validate:"max=3000"`
	Number             int        `mapstructure:"number" label:"Number" validate:"min=1"`
	StartDate          time.Time  `mapstructure:"startDate" label:"Start date" validate:"required,ltefield=EndDate"`
	EndDate            time.Time  `mapstructure:"endDate" label:"End date" validate:"required"`
	SuggestedStartDate *time.Time `mapstructure:"suggestedStartDate"`
	SuggestedEndDate   *time.Time `mapstructure:"suggestedEndDate"`
}

func (in chapterInput) toChapter() *db.Chapter {
	return &db.Chapter{
		CourseID:           in.CourseID,
		Title:              in.Title,
		Description:        in.Description,
		Number:             in.Number,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		SuggestedStartDate: in.SuggestedStartDate,
		SuggestedEndDate:   in.SuggestedEndDate,
	}
}

type membershipInput struct {
	UserID   uuid.UUID `mapstructure:"userId" label:"User id" validate:"required"`
	CourseID uuid.UUID `mapstructure:"courseId" label:"Course id" validate:"required"`
	Role     db.Role   `mapstructure:"role" label:"Role" validate:"required"`
}

func (in membershipInput) toMembership() *db.CourseMembership {
	return &db.CourseMembership{UserID: in.UserID, CourseID: in.CourseID, Role: in.Role}
}

// decodeInput copies a GraphQL input object into target and validates the result.
func decodeInput(value interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      target,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(value); err != nil {
		return &ValidationError{msg: err.Error()}
	}
	return validateInput(target)
}

func courseInputFields(withID bool) graphql.InputObjectConfigFieldMap {
	fields := graphql.InputObjectConfigFieldMap{
		"title":        {Type: graphql.NewNonNull(graphql.String)},
		"description":  {Type: graphql.NewNonNull(graphql.String)},
		"startDate":    {Type: graphql.NewNonNull(dateTime)},
		"endDate":      {Type: graphql.NewNonNull(dateTime)},
		"published":    {Type: graphql.NewNonNull(graphql.Boolean)},
		"startYear":    {Type: graphql.Int},
		"yearDivision": {Type: yearDivisionEnum},
	}
	if withID {
		fields["id"] = &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(uuidScalar)}
	}
	return fields
}

var createCourseInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name:   "CreateCourseInput",
	Fields: courseInputFields(false),
})

var updateCourseInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name:   "UpdateCourseInput",
	Fields: courseInputFields(true),
})

var createChapterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CreateChapterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"courseId":           {Type: graphql.NewNonNull(uuidScalar)},
		"title":              {Type: graphql.NewNonNull(graphql.String)},
		"description":        {Type: graphql.NewNonNull(graphql.String)},
		"number":             {Type: graphql.NewNonNull(graphql.Int)},
		"startDate":          {Type: graphql.NewNonNull(dateTime)},
		"endDate":            {Type: graphql.NewNonNull(dateTime)},
		"suggestedStartDate": {Type: dateTime},
		"suggestedEndDate":   {Type: dateTime},
	},
})

var courseMembershipInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CourseMembershipInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"userId":   {Type: graphql.NewNonNull(uuidScalar)},
		"courseId": {Type: graphql.NewNonNull(uuidScalar)},
		"role":     {Type: graphql.NewNonNull(userRoleEnum)},
	},
})
