package models

import "gorm.io/gorm"

// Classroom groups the students of one teacher. Parents link their children to
// it by entering the access code.
type Classroom struct {
	gorm.Model
	Name       string    `gorm:"not null" json:"name"`
	AccessCode string    `gorm:"uniqueIndex;not null" json:"access_code"`
	TeacherID  uint      `gorm:"index;not null" json:"teacher_id"`
	Students   []Student `json:"students,omitempty"`
}
