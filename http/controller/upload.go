package controller

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aperturelog/aperture/http/controller/dto"
	"github.com/aperturelog/aperture/utils"
)

// SignUpload hands out a pre-signed, time-limited PUT URL. The object key
// is computed here from the validated filename and folder; the signed URL
// is the only write path a client ever holds.
func (ctrl *Controller) SignUpload(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid upload request: "+err.Error())
		return
	}

	if !strings.HasPrefix(req.ContentType, "image/") {
		utils.JSON400(c, "Invalid file type. Only images are allowed")
		return
	}

	if limit := ctrl.Config.EnvConfig.Upload.SizeLimit; limit > 0 && req.Size > limit {
		utils.JSON413(c, "File exceeds the upload size limit")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = ctrl.Config.EnvConfig.Upload.DefaultFolder
	}
	if strings.Contains(folder, "..") || strings.Contains(req.Filename, "..") ||
		strings.ContainsAny(req.Filename, "/\\") {
		utils.JSON400(c, "Invalid path: names cannot contain path separators or '..'")
		return
	}

	key := folder + "/" + req.Filename
	expiry := time.Duration(ctrl.Config.EnvConfig.Upload.URLExpiry) * time.Second

	uploadURL, err := ctrl.Infra.Minio.PresignedUploadURL(ctx, key, expiry)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to presign %q", key)
		utils.JSON500(c, "Failed to generate upload URL")
		return
	}

	utils.JSON200(c, dto.SignUploadResponse{
		UploadURL: uploadURL,
		PublicURL: ctrl.Infra.Minio.ObjectURL(key),
		Key:       key,
	})
}
