package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aperturelog/aperture/entity"
	"github.com/aperturelog/aperture/http/controller/dto"
	"github.com/aperturelog/aperture/repository"
	"github.com/aperturelog/aperture/utils"
)

// CreatePhoto persists an uploaded photo and folds it into its city set in
// the same request. Aggregation failure is logged but never rolls back the
// insert: an ungrouped photo beats a lost photo.
func (ctrl *Controller) CreatePhoto(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid photo payload: "+err.Error())
		return
	}

	photo := req.ToEntity()
	if err := ctrl.Repository.PhotoRepo.Create(photo); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Photo] Failed to create photo")
		utils.JSON500(c, "Failed to create photo")
		return
	}

	if err := ctrl.Repository.CitySetRepo.ApplyPhotoInsert(photo); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err,
			"[Photo] City aggregation failed for photo %s, photo kept ungrouped", photo.ID)
	} else if photo.HasCityGroup() {
		ctrl.Infra.Logger.InfoWithContextf(ctx,
			"[Photo] City set updated for %s / %s", *photo.Country, photo.ResolvedCity())
	} else {
		ctrl.Infra.Logger.InfoWithContextf(ctx,
			"[Photo] No geo information for photo %s, skipping aggregation", photo.ID)
	}

	utils.JSON201(c, photo)
}

// UpdatePhoto applies a partial edit. Coordinate changes do not re-trigger
// city aggregation; a photo stays in the set it was created under.
func (ctrl *Controller) UpdatePhoto(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid photo id")
		return
	}

	var req dto.UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid photo payload: "+err.Error())
		return
	}

	updates := req.Updates()
	if len(updates) == 0 {
		utils.JSON400(c, "No fields to update")
		return
	}

	photo, err := ctrl.Repository.PhotoRepo.Update(id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "Photo not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Photo] Failed to update photo %s", id)
		utils.JSON500(c, "Failed to update photo")
		return
	}

	utils.JSON200(c, photo)
}

// DeletePhoto removes the storage blob first, then the city-set bookkeeping
// and the database row inside one transaction. A blob deletion failure
// aborts the whole operation and keeps the row: a stray blob is recoverable
// by a cleanup sweep, a record pointing at nothing is not.
func (ctrl *Controller) DeletePhoto(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid photo id")
		return
	}

	photo, err := ctrl.Repository.PhotoRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "Photo not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Photo] Failed to load photo %s", id)
		utils.JSON500(c, "Failed to delete photo")
		return
	}

	if key, keyErr := ctrl.Infra.Minio.KeyFromURL(photo.URL); keyErr != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx,
			"[Photo] URL of photo %s is outside managed storage, skipping blob delete", id)
	} else if err := ctrl.Infra.Minio.RemoveObject(ctx, key); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Photo] Failed to delete blob %q", key)
		utils.JSON500(c, "Failed to delete photo from storage")
		return
	}

	err = ctrl.Repository.Transaction(func(txRepo *repository.Repository) error {
		// The set must settle while the photo row still exists: the cover
		// foreign key blocks deleting a row a city set still points at.
		if err := txRepo.CitySetRepo.ApplyPhotoDelete(txRepo.PhotoRepo, photo); err != nil {
			return err
		}
		return txRepo.PhotoRepo.Delete(photo.ID)
	})
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Photo] Failed to delete photo %s", id)
		utils.JSON500(c, "Failed to delete photo")
		return
	}

	utils.JSON200(c, photo)
}

func (ctrl *Controller) GetPhoto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid photo id")
		return
	}

	photo, err := ctrl.Repository.PhotoRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "Photo not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(c.Request.Context(), err, "[Photo] Failed to load photo %s", id)
		utils.JSON500(c, "Failed to load photo")
		return
	}

	utils.JSON200(c, photo)
}

func (ctrl *Controller) ListPhotos(c *gin.Context) {
	cursor, err := DecodeCursor(c.Query("cursor"))
	if err != nil {
		utils.JSON400(c, "Invalid cursor")
		return
	}
	limit := pageLimit(c)

	// Fetch one extra row to probe whether another page exists.
	photos, err := ctrl.Repository.PhotoRepo.List(cursor, limit+1)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(c.Request.Context(), err, "[Photo] Failed to list photos")
		utils.JSON500(c, "Failed to list photos")
		return
	}

	items, nextCursor := paginatePhotos(photos, limit)
	utils.JSON200(c, gin.H{
		"items":       items,
		"next_cursor": nextCursor,
	})
}

func (ctrl *Controller) ListFavoritePhotos(c *gin.Context) {
	limit := pageLimit(c)

	photos, err := ctrl.Repository.PhotoRepo.ListFavorites(limit)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(c.Request.Context(), err, "[Photo] Failed to list favorites")
		utils.JSON500(c, "Failed to list favorite photos")
		return
	}

	utils.JSON200(c, photos)
}

func paginatePhotos(photos []entity.Photo, limit int) ([]entity.Photo, *string) {
	if len(photos) <= limit {
		return photos, nil
	}
	items := photos[:limit]
	last := items[len(items)-1]
	token := EncodeCursor(repository.Cursor{ID: last.ID, UpdatedAt: last.UpdatedAt})
	return items, &token
}
