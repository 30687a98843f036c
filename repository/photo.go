package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aperturelog/aperture/entity"
)

// Photos in Japan and Taiwan group by region instead of city; the SQL
// mirror of entity.Photo.ResolvedCity for set-level queries.
const resolvedCityExpr = "CASE WHEN country_code IN ('JP', 'TW') THEN region ELSE city END"

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) Create(photo *entity.Photo) error {
	return r.db.Create(photo).Error
}

func (r *PhotoRepository) FindByID(id uuid.UUID) (*entity.Photo, error) {
	var photo entity.Photo
	err := r.db.Where("id = ?", id).First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// Update applies a partial update and returns the refreshed row. Editing
// coordinates or city fields never moves the photo between city sets; that
// is a documented limitation carried over from the original behavior.
func (r *PhotoRepository) Update(id uuid.UUID, updates map[string]interface{}) (*entity.Photo, error) {
	result := r.db.Model(&entity.Photo{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id)
}

func (r *PhotoRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&entity.Photo{}, "id = ?", id).Error
}

// List returns up to limit photos ordered by updated_at descending, id as
// tiebreaker. A nil cursor starts from the newest photo.
func (r *PhotoRepository) List(cursor *Cursor, limit int) ([]entity.Photo, error) {
	q := r.db.Order("updated_at DESC, id DESC").Limit(limit)
	if cursor != nil {
		q = q.Where(
			"updated_at < ? OR (updated_at = ? AND id < ?)",
			cursor.UpdatedAt, cursor.UpdatedAt, cursor.ID,
		)
	}
	var photos []entity.Photo
	if err := q.Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *PhotoRepository) ListFavorites(limit int) ([]entity.Photo, error) {
	var photos []entity.Photo
	err := r.db.Where("is_favorite = ?", true).
		Order("updated_at DESC").
		Limit(limit).
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// ListByCity returns every photo resolving to the given (country, city)
// pair under the region-substitution rule.
func (r *PhotoRepository) ListByCity(country, city string) ([]entity.Photo, error) {
	var photos []entity.Photo
	err := r.db.Where("country = ? AND "+resolvedCityExpr+" = ?", country, city).
		Order("updated_at DESC, id DESC").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// FindReplacementCover picks an arbitrary remaining photo of the city to
// take over as cover when the current cover is being deleted.
func (r *PhotoRepository) FindReplacementCover(country, city string, exclude uuid.UUID) (*entity.Photo, error) {
	var photo entity.Photo
	err := r.db.Where("country = ? AND "+resolvedCityExpr+" = ? AND id <> ?", country, city, exclude).
		First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}
