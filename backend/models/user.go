package models

import "gorm.io/gorm"

const (
	RoleTeacher = "teacher"
	RoleParent  = "parent"
)

// DefaultPhotoURL is the generic avatar assigned until the user uploads one.
const DefaultPhotoURL = "https://cdn-icons-png.flaticon.com/512/847/847969.png"

type User struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:parent" json:"role"` // teacher, parent
	PhotoURL     string `json:"photo_url"`
}

func ValidRole(role string) bool {
	return role == RoleTeacher || role == RoleParent
}
