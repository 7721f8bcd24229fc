package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Base replaces gorm.Model so identifiers and timestamps serialize with the
// JSON keys the dashboards expect.
type Base struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// FAQ is a question/answer pair shown on the public site.
type FAQ struct {
	Base
	Question string `gorm:"size:512" json:"question"`
	Answer   string `gorm:"type:text" json:"answer"`
	Category string `gorm:"size:64;index" json:"category"`
	Status   Status `gorm:"size:16;index" json:"status"`
}

// Job is a labor-export job posting.
type Job struct {
	Base
	Title               string                      `gorm:"size:255" json:"title"`
	Country             string                      `gorm:"size:64" json:"country"`
	ImageURL            string                      `gorm:"size:512" json:"imageUrl"`
	Positions           int                        `json:"positions"`
	Location            string                      `gorm:"size:255" json:"location"`
	Salary              string                      `gorm:"size:255" json:"salary"`
	ApplicationDeadline string                      `gorm:"size:64" json:"applicationDeadline"`
	EstimatedDeparture  string                      `gorm:"size:64" json:"estimatedDeparture"`
	Requirements        datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"requirements"`
	Benefits            datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"benefits"`
	Description         string                      `gorm:"type:text" json:"description"`
	Company             string                      `gorm:"size:255" json:"company"`
	WorkType            string                      `gorm:"size:64" json:"workType"`
	Featured            bool                        `json:"featured"`
	WorkingHours        string                      `gorm:"size:255" json:"workingHours"`
	Overtime            string                      `gorm:"size:255" json:"overtime"`
	Accommodation       string                      `gorm:"size:255" json:"accommodation"`
	WorkEnvironment     string                      `gorm:"size:255" json:"workEnvironment"`
	TrainingPeriod      string                      `gorm:"size:255" json:"trainingPeriod"`
	Status              Status                      `gorm:"size:16;index" json:"status"`
}

// Program is a study-abroad program listing.
type Program struct {
	Base
	Title         string                      `gorm:"size:255" json:"title"`
	Description   string                      `gorm:"type:text" json:"description"`
	Country       string                      `gorm:"size:64" json:"country"`
	Duration      string                      `gorm:"size:64" json:"duration"`
	Tuition       string                      `gorm:"size:255" json:"tuition"`
	Opportunities string                      `gorm:"type:text" json:"opportunities"`
	About         string                      `gorm:"type:text" json:"about"`
	ImageURL      string                      `gorm:"size:512" json:"imageUrl"`
	Requirements  datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"requirements"`
	Benefits      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"benefits"`
	Featured      bool                        `json:"featured"`
	Status        Status                      `gorm:"size:16;index" json:"status"`
}

// User is an admin portal account. The password hash never serializes.
type User struct {
	Base
	Name         string     `gorm:"size:255" json:"name"`
	Email        string     `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string     `gorm:"size:255" json:"-"`
	Phone        string     `gorm:"size:32" json:"phone"`
	Status       UserStatus `gorm:"size:16;index" json:"status"`
}

// Contact is an inbound inquiry from the public site. Program is free text,
// not a foreign key.
type Contact struct {
	Base
	Name       string        `gorm:"size:255" json:"name"`
	Email      string        `gorm:"size:255" json:"email"`
	Phone      string        `gorm:"size:32" json:"phone"`
	Program    string        `gorm:"size:255" json:"program"`
	Message    string        `gorm:"type:text" json:"message"`
	Status     ContactStatus `gorm:"size:16;index" json:"status"`
	ResolvedBy *uint         `json:"resolvedBy,omitempty"`
	ResolvedAt *time.Time    `json:"resolvedAt,omitempty"`
}
