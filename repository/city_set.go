package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aperturelog/aperture/entity"
)

// CitySetRepository owns every write to city_sets. photo_count and
// cover_photo_id must only change through ApplyPhotoInsert and
// ApplyPhotoDelete, or the count invariant breaks.
type CitySetRepository struct {
	db *gorm.DB
}

func NewCitySetRepository(db *gorm.DB) *CitySetRepository {
	return &CitySetRepository{db: db}
}

// ApplyPhotoInsert creates or bumps the city set for a freshly inserted
// photo. The conflict arithmetic runs inside a single statement so two
// concurrent uploads into the same new city cannot race a read-modify-write:
// the insert either lands first (count 1, cover = new photo) or folds into
// the existing row (count + 1, cover backfilled only when missing).
// Photos without country or resolved city are left ungrouped.
func (r *CitySetRepository) ApplyPhotoInsert(photo *entity.Photo) error {
	if !photo.HasCityGroup() {
		return nil
	}

	cs := entity.CitySet{
		Country:      *photo.Country,
		CountryCode:  photo.CountryCode,
		City:         photo.ResolvedCity(),
		CoverPhotoID: photo.ID,
		PhotoCount:   1,
	}

	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "country"}, {Name: "city"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"country_code":   photo.CountryCode,
			"photo_count":    gorm.Expr("city_sets.photo_count + 1"),
			"cover_photo_id": gorm.Expr("COALESCE(city_sets.cover_photo_id, ?)", photo.ID),
			"updated_at":     time.Now(),
		}),
	}).Create(&cs).Error
}

// ApplyPhotoDelete reverses ApplyPhotoInsert for a photo that is about to be
// deleted in the same transaction. It must run before the photo row is
// removed, while cover_photo_id can still legally reference it. When the
// count would reach zero the set is removed; when the deleted photo was the
// cover, reassignment and decrement land in one UPDATE so the cover never
// dangles. A cover photo with no surviving replacement also removes the set.
func (r *CitySetRepository) ApplyPhotoDelete(photoRepo *PhotoRepository, photo *entity.Photo) error {
	if !photo.HasCityGroup() {
		return nil
	}

	country := *photo.Country
	city := photo.ResolvedCity()

	// Locked read: two concurrent deletes of a two-photo set must not both
	// take the decrement branch and strand a zero-count row.
	var cs entity.CitySet
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("country = ? AND city = ?", country, city).First(&cs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if cs.PhotoCount <= 1 {
		return r.db.Delete(&entity.CitySet{}, "id = ?", cs.ID).Error
	}

	updates := map[string]interface{}{
		"photo_count": gorm.Expr("photo_count - 1"),
		"updated_at":  time.Now(),
	}

	if cs.CoverPhotoID == photo.ID {
		replacement, err := photoRepo.FindReplacementCover(country, city, photo.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Count says photos remain but none resolve to this city
			// anymore; the aggregate is stale, drop it.
			return r.db.Delete(&entity.CitySet{}, "id = ?", cs.ID).Error
		}
		if err != nil {
			return err
		}
		updates["cover_photo_id"] = replacement.ID
	}

	return r.db.Model(&entity.CitySet{}).Where("id = ?", cs.ID).Updates(updates).Error
}

// List returns city sets newest-updated first with their cover photo
// preloaded. When includePhotos is set, each set also carries the full
// resolved photo list.
func (r *CitySetRepository) List(photoRepo *PhotoRepository, cursor *Cursor, limit int, includePhotos bool) ([]entity.CitySet, error) {
	q := r.db.Preload("CoverPhoto").Order("updated_at DESC, id DESC").Limit(limit)
	if cursor != nil {
		q = q.Where(
			"updated_at < ? OR (updated_at = ? AND id < ?)",
			cursor.UpdatedAt, cursor.UpdatedAt, cursor.ID,
		)
	}
	var sets []entity.CitySet
	if err := q.Find(&sets).Error; err != nil {
		return nil, err
	}

	if includePhotos {
		for i := range sets {
			photos, err := photoRepo.ListByCity(sets[i].Country, sets[i].City)
			if err != nil {
				return nil, err
			}
			sets[i].Photos = photos
		}
	}

	return sets, nil
}

func (r *CitySetRepository) FindByID(photoRepo *PhotoRepository, id uuid.UUID) (*entity.CitySet, error) {
	var cs entity.CitySet
	err := r.db.Preload("CoverPhoto").Where("id = ?", id).First(&cs).Error
	if err != nil {
		return nil, err
	}

	photos, err := photoRepo.ListByCity(cs.Country, cs.City)
	if err != nil {
		return nil, err
	}
	cs.Photos = photos

	return &cs, nil
}
