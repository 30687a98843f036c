package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aperturelog/aperture/repository"
	"github.com/aperturelog/aperture/utils"
)

func (ctrl *Controller) ListCitySets(c *gin.Context) {
	cursor, err := DecodeCursor(c.Query("cursor"))
	if err != nil {
		utils.JSON400(c, "Invalid cursor")
		return
	}
	limit := pageLimit(c)
	includePhotos := c.Query("include_photos") == "1"

	sets, err := ctrl.Repository.CitySetRepo.List(ctrl.Repository.PhotoRepo, cursor, limit+1, includePhotos)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(c.Request.Context(), err, "[City] Failed to list city sets")
		utils.JSON500(c, "Failed to list city sets")
		return
	}

	var nextCursor *string
	if len(sets) > limit {
		sets = sets[:limit]
		last := sets[len(sets)-1]
		token := EncodeCursor(repository.Cursor{ID: last.ID, UpdatedAt: last.UpdatedAt})
		nextCursor = &token
	}

	utils.JSON200(c, gin.H{
		"items":       sets,
		"next_cursor": nextCursor,
	})
}

func (ctrl *Controller) GetCitySet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid city set id")
		return
	}

	cs, err := ctrl.Repository.CitySetRepo.FindByID(ctrl.Repository.PhotoRepo, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "City not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(c.Request.Context(), err, "[City] Failed to load city set %s", id)
		utils.JSON500(c, "Failed to load city set")
		return
	}

	utils.JSON200(c, cs)
}
