package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/meitrex/course-service/config"
	"github.com/meitrex/course-service/filter"
	"github.com/meitrex/course-service/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store runs course, chapter and membership queries. Course queries accept a composed predicate.
type Store interface {
	CourseFields() filter.Fields
	FindCourses(ctx context.Context, where filter.Predicate, order []Order) ([]Course, error)
	FindCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]Course, error)
	CreateCourse(ctx context.Context, course *Course) error
	UpdateCourse(ctx context.Context, course *Course) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error

	FindChaptersByCourseID(ctx context.Context, courseID uuid.UUID) ([]Chapter, error)
	CreateChapter(ctx context.Context, chapter *Chapter) error
	DeleteChapter(ctx context.Context, id uuid.UUID) error

	FindMembershipsByCourseID(ctx context.Context, courseID uuid.UUID) ([]CourseMembership, error)
	FindMembershipsByUserID(ctx context.Context, userID uuid.UUID, available *bool) ([]CourseMembership, error)
	CreateMembership(ctx context.Context, membership *CourseMembership) error
	UpdateMembership(ctx context.Context, membership *CourseMembership) error
	DeleteMembership(ctx context.Context, userID uuid.UUID, courseID uuid.UUID) (*CourseMembership, error)
}

type Order struct {
	Column string
	Desc   bool
}

// Db represents a connection to the course database
type Db struct {
	gorm   *gorm.DB
	fields filter.Fields
	now    func() time.Time
}

// NewDb opens a MySQL connection pool for the given DSN
func NewDb(dsn string, naming config.NamingConvention, logger log.Logger) (*Db, error) {
	conn, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(logger),
	})
	if err != nil {
		return nil, err
	}
	return NewDbWithConnection(conn, naming), nil
}

func NewDbWithConnection(conn *gorm.DB, naming config.NamingConvention) *Db {
	return &Db{
		gorm:   conn,
		fields: NewCourseFields(naming),
		now:    time.Now,
	}
}

// NewCourseFields describes the course fields that can be filtered and sorted on.
func NewCourseFields(naming config.NamingConvention) filter.Fields {
	return filter.NewFields(naming, map[string]filter.FieldType{
		"title":       filter.StringField,
		"description": filter.StringField,
		"startDate":   filter.DateTimeField,
		"endDate":     filter.DateTimeField,
		"published":   filter.BooleanField,
		"startYear":   filter.IntField,
	})
}

// Migrate creates or updates the tables backing the entities
func (db *Db) Migrate(ctx context.Context) error {
	return db.gorm.WithContext(ctx).AutoMigrate(&Course{}, &Chapter{}, &CourseMembership{})
}

func (db *Db) CourseFields() filter.Fields {
	return db.fields
}

func (db *Db) FindCourses(ctx context.Context, where filter.Predicate, order []Order) ([]Course, error) {
	var courses []Course
	err := coursesQuery(db.gorm.WithContext(ctx), where, order).
		Preload("Chapters", chapterOrder).
		Find(&courses).Error
	return courses, err
}

func (db *Db) FindCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]Course, error) {
	var courses []Course
	err := db.gorm.WithContext(ctx).
		Preload("Chapters", chapterOrder).
		Where("id IN ?", ids).
		Find(&courses).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]Course, len(courses))
	for _, course := range courses {
		byID[course.ID] = course
	}

	result := make([]Course, 0, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		course, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		result = append(result, course)
	}

	if len(missing) > 0 {
		return nil, entitiesNotFound(missing)
	}
	return result, nil
}

func (db *Db) CreateCourse(ctx context.Context, course *Course) error {
	return db.gorm.WithContext(ctx).Omit(clause.Associations).Create(course).Error
}

func (db *Db) UpdateCourse(ctx context.Context, course *Course) error {
	result := db.gorm.WithContext(ctx).
		Model(&Course{ID: course.ID}).
		Select("title", "description", "start_date", "end_date", "published", "start_year", "year_division").
		Updates(course)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if err := db.requireCourse(ctx, course.ID); err != nil {
			return err
		}
	}
	return nil
}

func (db *Db) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return db.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&CourseMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&Chapter{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&Course{ID: id})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entitiesNotFound([]uuid.UUID{id})
		}
		return nil
	})
}

func (db *Db) FindChaptersByCourseID(ctx context.Context, courseID uuid.UUID) ([]Chapter, error) {
	var chapters []Chapter
	err := chapterOrder(db.gorm.WithContext(ctx)).
		Where("course_id = ?", courseID).
		Find(&chapters).Error
	return chapters, err
}

func (db *Db) CreateChapter(ctx context.Context, chapter *Chapter) error {
	if err := db.requireCourse(ctx, chapter.CourseID); err != nil {
		return err
	}
	return db.gorm.WithContext(ctx).Create(chapter).Error
}

func (db *Db) DeleteChapter(ctx context.Context, id uuid.UUID) error {
	result := db.gorm.WithContext(ctx).Delete(&Chapter{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entitiesNotFound([]uuid.UUID{id})
	}
	return nil
}

func (db *Db) FindMembershipsByCourseID(ctx context.Context, courseID uuid.UUID) ([]CourseMembership, error) {
	if err := db.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	var memberships []CourseMembership
	err := db.gorm.WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&memberships).Error
	return memberships, err
}

func (db *Db) requireCourse(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := db.gorm.WithContext(ctx).Model(&Course{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return entitiesNotFound([]uuid.UUID{id})
	}
	return nil
}

func (db *Db) FindMembershipsByUserID(ctx context.Context, userID uuid.UUID, available *bool) ([]CourseMembership, error) {
	query, err := membershipsByUserQuery(db.gorm.WithContext(ctx), db.fields, userID, available, db.now())
	if err != nil {
		return nil, err
	}

	var memberships []CourseMembership
	err = query.Find(&memberships).Error
	return memberships, err
}

func (db *Db) CreateMembership(ctx context.Context, membership *CourseMembership) error {
	if err := db.requireCourse(ctx, membership.CourseID); err != nil {
		return err
	}

	var existing CourseMembership
	err := db.gorm.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", membership.UserID, membership.CourseID).
		Take(&existing).Error
	if err == nil {
		return NewConflictError("User " + membership.UserID.String() +
			" is already a member of course " + membership.CourseID.String())
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.gorm.WithContext(ctx).Create(membership).Error
}

func (db *Db) UpdateMembership(ctx context.Context, membership *CourseMembership) error {
	result := db.gorm.WithContext(ctx).
		Model(&CourseMembership{}).
		Where("user_id = ? AND course_id = ?", membership.UserID, membership.CourseID).
		Update("course_role", membership.Role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var existing CourseMembership
		err := db.gorm.WithContext(ctx).
			Where("user_id = ? AND course_id = ?", membership.UserID, membership.CourseID).
			Take(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return membershipNotFound(membership.UserID, membership.CourseID)
		}
		return err
	}
	return nil
}

func (db *Db) DeleteMembership(ctx context.Context, userID uuid.UUID, courseID uuid.UUID) (*CourseMembership, error) {
	var membership CourseMembership
	err := db.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).Take(&membership).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return membershipNotFound(userID, courseID)
		}
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND course_id = ?", userID, courseID).Delete(&CourseMembership{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func membershipNotFound(userID uuid.UUID, courseID uuid.UUID) error {
	return NewNotFoundError("Membership of user " + userID.String() + " in course " + courseID.String() + " not found")
}

func chapterOrder(tx *gorm.DB) *gorm.DB {
	return tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "number"}})
}

func coursesQuery(tx *gorm.DB, where filter.Predicate, order []Order) *gorm.DB {
	tx = tx.Model(&Course{})
	if where != nil {
		tx = tx.Where(where)
	}
	for _, o := range order {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}
	return tx
}

// A course is available while it is published and now lies between its start and end date.
func availableCourses(now time.Time) filter.Expression {
	published := true
	return filter.AllOf(
		filter.Field("published", filter.BooleanCondition{Equals: &published}),
		filter.Field("startDate", filter.DateTimeCondition{Before: &now}),
		filter.Field("endDate", filter.DateTimeCondition{After: &now}),
	)
}

func membershipsByUserQuery(tx *gorm.DB, fields filter.Fields, userID uuid.UUID, available *bool, now time.Time) (*gorm.DB, error) {
	tx = tx.Model(&CourseMembership{}).Where("course_memberships.user_id = ?", userID)
	if available == nil {
		return tx, nil
	}

	expr := availableCourses(now)
	if !*available {
		expr = filter.Negate(expr)
	}
	pred, err := filter.Compose(expr, fields)
	if err != nil {
		return nil, err
	}

	return tx.Joins("JOIN courses ON courses.id = course_memberships.course_id").Where(pred), nil
}
