package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type YearDivision string

const (
	FirstSemester   YearDivision = "FIRST_SEMESTER"
	SecondSemester  YearDivision = "SECOND_SEMESTER"
	FirstTrimester  YearDivision = "FIRST_TRIMESTER"
	SecondTrimester YearDivision = "SECOND_TRIMESTER"
	ThirdTrimester  YearDivision = "THIRD_TRIMESTER"
	FirstQuarter    YearDivision = "FIRST_QUARTER"
	SecondQuarter   YearDivision = "SECOND_QUARTER"
	ThirdQuarter    YearDivision = "THIRD_QUARTER"
	FourthQuarter   YearDivision = "FOURTH_QUARTER"
)

var YearDivisions = []YearDivision{
	FirstSemester, SecondSemester,
	FirstTrimester, SecondTrimester, ThirdTrimester,
	FirstQuarter, SecondQuarter, ThirdQuarter, FourthQuarter,
}

type Role string

const (
	RoleStudent       Role = "STUDENT"
	RoleTutor         Role = "TUTOR"
	RoleAdministrator Role = "ADMINISTRATOR"
)

var Roles = []Role{RoleStudent, RoleTutor, RoleAdministrator}

type Course struct {
	ID           uuid.UUID     `gorm:"type:char(36);primaryKey" json:"id"`
	Title        string        `gorm:"size:255;not null" json:"title"`
	Description  string        `gorm:"size:3000;not null" json:"description"`
	StartDate    time.Time     `gorm:"not null" json:"startDate"`
	EndDate      time.Time     `gorm:"not null" json:"endDate"`
	Published    bool          `gorm:"not null" json:"published"`
	StartYear    *int          `json:"startYear"`
	YearDivision *YearDivision `gorm:"size:32" json:"yearDivision"`
	Chapters     []Chapter     `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"chapters"`
}

type Chapter struct {
	ID                 uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	Title              string     `gorm:"size:255;not null" json:"title"`
	Description        string     `gorm:"size:3000;not null" json:"description"`
	Number             int        `gorm:"not null" json:"number"`
	StartDate          time.Time  `gorm:"not null" json:"startDate"`
	EndDate            time.Time  `gorm:"not null" json:"endDate"`
	SuggestedStartDate *time.Time `json:"suggestedStartDate"`
	SuggestedEndDate   *time.Time `json:"suggestedEndDate"`
	CourseID           uuid.UUID  `gorm:"type:char(36);index;not null" json:"courseId"`
}

type CourseMembership struct {
	UserID   uuid.UUID `gorm:"type:char(36);primaryKey" json:"userId"`
	CourseID uuid.UUID `gorm:"type:char(36);primaryKey" json:"courseId"`
	Role     Role      `gorm:"column:course_role;size:16;not null" json:"role"`
}

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *Chapter) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
