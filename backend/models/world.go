package models

import "gorm.io/gorm"

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// DefaultXPReward is granted for an activity that does not declare its own.
const DefaultXPReward = 10

// World is a themed container of activities scoped to one classroom.
type World struct {
	gorm.Model
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`
	CoverURL    string     `gorm:"not null" json:"cover_url"`
	ClassroomID uint       `gorm:"index;not null" json:"classroom_id"`
	Activities  []Activity `json:"activities"`
}

// Activity is a video lesson embedded in a world. Activities have no life of
// their own: deleting the world deletes them.
type Activity struct {
	gorm.Model
	WorldID       uint   `gorm:"index;not null" json:"world_id"`
	Title         string `gorm:"not null" json:"title"`
	Description   string `json:"description"`
	VideoURL      string `gorm:"not null" json:"video_url"`
	PreviewURL    string `json:"preview_url"`
	XPReward      int    `gorm:"default:10" json:"xp_reward"`
	Difficulty    string `gorm:"default:easy" json:"difficulty"` // easy, medium, hard
	SequenceOrder int    `gorm:"default:0" json:"sequence_order"`
}

func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}
