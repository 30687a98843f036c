package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/aperturelog/aperture/config"
	"github.com/aperturelog/aperture/infra"
)

func newSignUploadController(sizeLimit int64) *Controller {
	cfg := &config.Config{EnvConfig: &config.EnvConfig{}}
	cfg.EnvConfig.Upload.SizeLimit = sizeLimit
	cfg.EnvConfig.Upload.DefaultFolder = "photos"
	return &Controller{
		Config: cfg,
		Infra:  &infra.Infra{Logger: infra.InitLoggerClient(cfg.EnvConfig)},
	}
}

func signUploadRequest(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/uploads/sign", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestSignUploadRejectsOversizeDeclaredSize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := newSignUploadController(1024)

	c, w := signUploadRequest(`{"filename":"big.jpg","content_type":"image/jpeg","size":2048}`)
	ctrl.SignUpload(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSignUploadRejectsNonImageContentType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := newSignUploadController(1024)

	c, w := signUploadRequest(`{"filename":"notes.txt","content_type":"text/plain","size":10}`)
	ctrl.SignUpload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignUploadRejectsPathTraversal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := newSignUploadController(1024)

	tests := []string{
		`{"filename":"../secret.jpg","content_type":"image/jpeg","size":10}`,
		`{"filename":"a/b.jpg","content_type":"image/jpeg","size":10}`,
		`{"filename":"ok.jpg","content_type":"image/jpeg","size":10,"folder":"../etc"}`,
	}
	for _, body := range tests {
		c, w := signUploadRequest(body)
		ctrl.SignUpload(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
}
