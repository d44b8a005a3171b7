package models

import (
	"time"
)

// SolutionVideo links a problem to its externally hosted editorial video.
// Its existence is the signal the admin problems view uses for "has editorial".
type SolutionVideo struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProblemID string `gorm:"uniqueIndex;not null" json:"problemId"`
	UserID    string `gorm:"index;not null" json:"userId"`

	CloudinaryPublicID string  `gorm:"uniqueIndex;not null" json:"cloudinaryPublicId"`
	SecureURL          string  `gorm:"not null" json:"secureUrl"`
	ThumbnailURL       string  `json:"thumbnailUrl"`
	Duration           float64 `json:"duration"`
}
