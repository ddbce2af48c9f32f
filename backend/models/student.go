package models

import (
	"time"

	"gorm.io/gorm"
)

// Student is a child profile created by a parent. ClassroomID is set at
// creation and only becomes NULL when the owning teacher deletes their account,
// which unlinks the student instead of deleting it.
type Student struct {
	gorm.Model
	Name                string              `gorm:"not null" json:"name"`
	Age                 int                 `json:"age"`
	Gender              string              `json:"gender"`
	ParentID            uint                `gorm:"index;not null" json:"parent_id"`
	ClassroomID         *uint               `gorm:"index" json:"classroom_id"`
	XP                  int                 `gorm:"default:0" json:"xp"`
	CompletedActivities []CompletedActivity `json:"completed_activities,omitempty"`
}

// CompletedActivity records that a student finished one activity. The unique
// index on (student_id, activity_id) is what makes completion idempotent: a
// student can never hold two records for the same activity, so XP is awarded
// at most once per activity.
type CompletedActivity struct {
	gorm.Model
	StudentID   uint      `gorm:"index:idx_student_activity,unique;not null" json:"student_id"`
	ActivityID  uint      `gorm:"index:idx_student_activity,unique;not null" json:"activity_id"`
	WorldID     uint      `json:"world_id"`
	CompletedAt time.Time `json:"completed_at"`
}
