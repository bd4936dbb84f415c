package model

import "time"

// Closed value sets for the enumerated survey fields.
var (
	Batches          = []string{"10th", "11th", "12th", "13th", "14th"}
	Departments      = []string{"TEX", "IPE", "CSE", "EEE", "FDAE"}
	ExperienceLevels = []string{"beginner", "intermediate", "advanced"}
)

// SurveyRecord is the canonical in-memory shape produced by the
// registration form. Field names follow the form's camelCase convention;
// backend wire shapes are handled by the wire package.
type SurveyRecord struct {
	Name                 string   `json:"name" validate:"required"`
	Email                string   `json:"email" validate:"required,email"`
	Phone                string   `json:"phone" validate:"required"`
	StudentID            string   `json:"studentId" validate:"required"`
	Batch                string   `json:"batch" validate:"required,oneof=10th 11th 12th 13th 14th"`
	Department           string   `json:"department" validate:"required,oneof=TEX IPE CSE EEE FDAE"`
	ExperienceLevel      string   `json:"experienceLevel" validate:"required,oneof=beginner intermediate advanced"`
	WorkshopTopics       []string `json:"workshopTopics" validate:"required,min=1"`
	ProgrammingLanguages []string `json:"programmingLanguages" validate:"required,min=1"`
	Availability         string   `json:"availability" validate:"required"`
	Expectations         string   `json:"expectations" validate:"required"`
	AdditionalComments   string   `json:"additionalComments"`
}

// StoredSubmission is a SurveyRecord plus the backend-assigned fields.
// CreatedAt is the normalized creation instant, regardless of whether the
// backend called it submitted_at or created_at on the wire.
type StoredSubmission struct {
	ID string `json:"id"`
	SurveyRecord
	CreatedAt time.Time `json:"createdAt"`
}
