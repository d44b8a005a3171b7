package models

import (
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Problem owns its test-case and code lists; they are embedded documents in
// spirit and are always written and replaced together with the problem.
type Problem struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Difficulty  Difficulty `gorm:"type:text;not null" json:"difficulty"`
	Tags        string     `gorm:"not null" json:"tags"` // single topic tag: Array, String, Graph, ...

	VisibleTestCases   []VisibleTestCase   `gorm:"foreignKey:ProblemID;constraint:OnDelete:CASCADE" json:"visibleTestCases,omitempty"`
	HiddenTestCases    []HiddenTestCase    `gorm:"foreignKey:ProblemID;constraint:OnDelete:CASCADE" json:"hiddenTestCases,omitempty"`
	StartCode          []StarterCode       `gorm:"foreignKey:ProblemID;constraint:OnDelete:CASCADE" json:"startCode,omitempty"`
	ReferenceSolutions []ReferenceSolution `gorm:"foreignKey:ProblemID;constraint:OnDelete:CASCADE" json:"referenceSolution,omitempty"`

	CreatorID string `gorm:"index" json:"problemCreator"`
}

// VisibleTestCase is shown to users as an example and drives the interactive
// "run" feedback.
type VisibleTestCase struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ProblemID   string `gorm:"index" json:"-"`
	Input       string `gorm:"type:text" json:"input"`
	Output      string `gorm:"type:text" json:"output"`
	Explanation string `gorm:"type:text" json:"explanation"`
}

// HiddenTestCase is used only for grading and never leaves the server.
type HiddenTestCase struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ProblemID string `gorm:"index" json:"-"`
	Input     string `gorm:"type:text" json:"input"`
	Output    string `gorm:"type:text" json:"output"`
}

type StarterCode struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ProblemID   string `gorm:"index" json:"-"`
	Language    string `json:"language"`
	InitialCode string `gorm:"type:text" json:"initialCode"`
}

type ReferenceSolution struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ProblemID    string `gorm:"index" json:"-"`
	Language     string `json:"language"`
	CompleteCode string `gorm:"type:text" json:"completeCode"`
}

// ProblemSummary is the slim projection used by listing endpoints and the
// solved-set view.
type ProblemSummary struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Difficulty Difficulty `json:"difficulty"`
	Tags       string     `json:"tags"`
}
