package models

import (
	"time"
)

type SubmissionStatus string

const (
	SubStatusPending  SubmissionStatus = "pending"
	SubStatusAccepted SubmissionStatus = "accepted"
	SubStatusWA       SubmissionStatus = "wrong answer"
	SubStatusRE       SubmissionStatus = "runtime error"
	SubStatusTLE      SubmissionStatus = "time limit exceeded"
	SubStatusCE       SubmissionStatus = "compilation error"
)

// Submission is created pending and mutated exactly once to a terminal status
// after the judge responds.
type Submission struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID    string `gorm:"index:idx_user_problem" json:"userId"`
	ProblemID string `gorm:"index:idx_user_problem" json:"problemId"`

	Code     string `gorm:"type:text;not null" json:"code"`
	Language string `gorm:"not null" json:"language"`

	Status SubmissionStatus `gorm:"type:text;not null" json:"status"`

	Runtime float64 `json:"runtime"` // seconds, summed over passed hidden cases
	Memory  int     `json:"memory"`  // KB, max over passed hidden cases

	TestCasesPassed int `json:"testCasesPassed"`
	TestCasesTotal  int `json:"testCasesTotal"`

	ErrorMessage string `gorm:"type:text" json:"errorMessage"`
}
