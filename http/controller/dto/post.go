package dto

import (
	"encoding/json"

	"github.com/aperturelog/aperture/entity"
)

type CreatePostRequest struct {
	Title              string          `json:"title" binding:"required"`
	Slug               string          `json:"slug" binding:"required"`
	Visibility         string          `json:"visibility" binding:"omitempty,oneof=public private"`
	Tags               json.RawMessage `json:"tags"`
	CoverImage         *string         `json:"cover_image"`
	Description        *string         `json:"description"`
	Content            *string         `json:"content"`
	ReadingTimeMinutes *int            `json:"reading_time_minutes"`
}

func (r *CreatePostRequest) ToEntity() *entity.Post {
	visibility := entity.PostVisibilityPrivate
	if r.Visibility != "" {
		visibility = entity.PostVisibility(r.Visibility)
	}
	return &entity.Post{
		Title:              r.Title,
		Slug:               r.Slug,
		Visibility:         visibility,
		Tags:               []byte(r.Tags),
		CoverImage:         r.CoverImage,
		Description:        r.Description,
		Content:            r.Content,
		ReadingTimeMinutes: r.ReadingTimeMinutes,
	}
}

type UpdatePostRequest struct {
	Title              *string         `json:"title" binding:"omitempty,min=1"`
	Visibility         *string         `json:"visibility" binding:"omitempty,oneof=public private"`
	Tags               json.RawMessage `json:"tags"`
	CoverImage         *string         `json:"cover_image"`
	Description        *string         `json:"description"`
	Content            *string         `json:"content"`
	ReadingTimeMinutes *int            `json:"reading_time_minutes"`
}

func (r *UpdatePostRequest) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.Title != nil {
		updates["title"] = *r.Title
	}
	if r.Visibility != nil {
		updates["visibility"] = *r.Visibility
	}
	if len(r.Tags) > 0 {
		updates["tags"] = []byte(r.Tags)
	}
	if r.CoverImage != nil {
		updates["cover_image"] = *r.CoverImage
	}
	if r.Description != nil {
		updates["description"] = *r.Description
	}
	if r.Content != nil {
		updates["content"] = *r.Content
	}
	if r.ReadingTimeMinutes != nil {
		updates["reading_time_minutes"] = *r.ReadingTimeMinutes
	}
	return updates
}
