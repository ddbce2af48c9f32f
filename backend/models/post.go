package models

import "gorm.io/gorm"

const (
	PostTypeNotice  = "notice"
	PostTypeTip     = "tip"
	PostTypeTask    = "task"
	PostTypeFunFact = "fun_fact"
)

const (
	AttachmentImage = "image"
	AttachmentFile  = "file"
)

// Post is a classroom announcement written by a teacher, visible to the
// parents of that classroom. Publish timestamp is CreatedAt.
type Post struct {
	gorm.Model
	Title       string       `gorm:"not null" json:"title"`
	Content     string       `gorm:"not null" json:"content"`
	Type        string       `gorm:"default:notice" json:"type"` // notice, tip, task, fun_fact
	ClassroomID uint         `gorm:"index;not null" json:"classroom_id"`
	AuthorID    uint         `gorm:"index" json:"author_id"`
	Attachments []Attachment `json:"attachments"`
}

type Attachment struct {
	gorm.Model
	PostID uint   `gorm:"index;not null" json:"post_id"`
	URL    string `gorm:"not null" json:"url"`
	Kind   string `gorm:"default:image" json:"kind"` // image, file
	Name   string `json:"name"`
}

func ValidPostType(t string) bool {
	switch t {
	case PostTypeNotice, PostTypeTip, PostTypeTask, PostTypeFunFact:
		return true
	}
	return false
}
