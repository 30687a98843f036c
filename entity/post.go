package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PostVisibility string

const (
	PostVisibilityPublic  PostVisibility = "public"
	PostVisibilityPrivate PostVisibility = "private"
)

// Post is a blog entry shown on the public site.
type Post struct {
	ID                 uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title              string         `json:"title" gorm:"not null"`
	Slug               string         `json:"slug" gorm:"uniqueIndex;not null"`
	Visibility         PostVisibility `json:"visibility" gorm:"type:varchar(16);not null;default:'private'"`
	Tags               datatypes.JSON `json:"tags,omitempty"`
	CoverImage         *string        `json:"cover_image,omitempty"`
	Description        *string        `json:"description,omitempty"`
	Content            *string        `json:"content,omitempty"`
	ReadingTimeMinutes *int           `json:"reading_time_minutes,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime"`
}

func (Post) TableName() string {
	return "posts"
}
