package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aperturelog/aperture/utils"
)

// ReverseGeocode resolves coordinates to an address for pre-filling the
// photo form. The Mapbox token never leaves the server.
func (ctrl *Controller) ReverseGeocode(c *gin.Context) {
	ctx := c.Request.Context()

	if ctrl.Infra.Geocoder == nil {
		utils.JSON500(c, "Geocoding is not configured")
		return
	}

	longitude, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		utils.JSON400(c, "Invalid longitude")
		return
	}
	latitude, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		utils.JSON400(c, "Invalid latitude")
		return
	}

	addr, err := ctrl.Infra.Geocoder.ReverseGeocode(ctx, longitude, latitude)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Geocode] Reverse lookup failed for %f,%f", longitude, latitude)
		utils.JSON500(c, "Reverse geocoding failed")
		return
	}

	utils.JSON200(c, addr)
}
