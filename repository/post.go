package repository

import (
	"gorm.io/gorm"

	"github.com/aperturelog/aperture/entity"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(post *entity.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) FindBySlug(slug string) (*entity.Post, error) {
	var post entity.Post
	err := r.db.Where("slug = ?", slug).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Post{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostRepository) List() ([]entity.Post, error) {
	var posts []entity.Post
	err := r.db.Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) UpdateBySlug(slug string, updates map[string]interface{}) (*entity.Post, error) {
	result := r.db.Model(&entity.Post{}).Where("slug = ?", slug).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindBySlug(slug)
}

func (r *PostRepository) DeleteBySlug(slug string) error {
	result := r.db.Delete(&entity.Post{}, "slug = ?", slug)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
