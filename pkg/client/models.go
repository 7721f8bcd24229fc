package client

import "time"

// Base carries the identifier and timestamps every entity serializes.
type Base struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b Base) entityID() uint { return b.ID }

// FAQ mirrors the server's question/answer entity.
type FAQ struct {
	Base
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

// Job mirrors the server's job posting entity.
type Job struct {
	Base
	Title               string   `json:"title"`
	Country             string   `json:"country"`
	ImageURL            string   `json:"imageUrl"`
	Positions           int      `json:"positions"`
	Location            string   `json:"location"`
	Salary              string   `json:"salary"`
	ApplicationDeadline string   `json:"applicationDeadline"`
	EstimatedDeparture  string   `json:"estimatedDeparture"`
	Requirements        []string `json:"requirements"`
	Benefits            []string `json:"benefits"`
	Description         string   `json:"description"`
	Company             string   `json:"company"`
	WorkType            string   `json:"workType"`
	Featured            bool     `json:"featured"`
	WorkingHours        string   `json:"workingHours"`
	Overtime            string   `json:"overtime"`
	Accommodation       string   `json:"accommodation"`
	WorkEnvironment     string   `json:"workEnvironment"`
	TrainingPeriod      string   `json:"trainingPeriod"`
	Status              string   `json:"status"`
}

// Program mirrors the server's study-program entity.
type Program struct {
	Base
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Country       string   `json:"country"`
	Duration      string   `json:"duration"`
	Tuition       string   `json:"tuition"`
	Opportunities string   `json:"opportunities"`
	About         string   `json:"about"`
	ImageURL      string   `json:"imageUrl"`
	Requirements  []string `json:"requirements"`
	Benefits      []string `json:"benefits"`
	Featured      bool     `json:"featured"`
	Status        string   `json:"status"`
}

// User mirrors the server's admin account entity.
type User struct {
	Base
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// Contact mirrors the server's inquiry entity.
type Contact struct {
	Base
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Program    string     `json:"program"`
	Message    string     `json:"message"`
	Status     string     `json:"status"`
	ResolvedBy *uint      `json:"resolvedBy,omitempty"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}
