package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aperturelog/aperture/config"
	"github.com/aperturelog/aperture/infra"
	"github.com/aperturelog/aperture/repository"
)

func newMockController(t *testing.T) (*Controller, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	cfg := &config.Config{EnvConfig: &config.EnvConfig{}}
	infraClients := &infra.Infra{
		Postgres: &infra.PostgresClient{DB: gdb},
		Minio:    &infra.MinioClient{Bucket: "photos", PublicURL: "https://cdn.example.com"},
		Logger:   infra.InitLoggerClient(cfg.EnvConfig),
	}

	return NewController(cfg, infraClients, repository.InitRepository(infraClients)), mock
}

// Deleting the last photo of a city must clean up the set before the photo
// row goes away: cover_photo_id references photos(id), so the reverse order
// trips the foreign key and aborts the transaction.
func TestDeletePhotoSettlesCitySetBeforeRemovingRow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl, mock := newMockController(t)

	photoID := uuid.New()
	setID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "photos" WHERE id = `).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "url", "title", "description", "country", "country_code", "city"}).
			AddRow(photoID.String(), "https://elsewhere.example.com/rome.jpg",
				"Rome", "Trastevere at dusk", "Italy", "IT", "Rome"))

	// Ordered expectations: the city-set delete must precede the photo
	// delete inside the transaction.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "city_sets" WHERE country = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "country", "city", "cover_photo_id", "photo_count"}).
			AddRow(setID.String(), "Italy", "Rome", photoID.String(), 1))
	mock.ExpectExec(`DELETE FROM "city_sets" WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "photos" WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: photoID.String()}}
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/v1/photos/"+photoID.String(), nil)

	ctrl.DeletePhoto(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePhotoUnknownIDReturns404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl, mock := newMockController(t)

	mock.ExpectQuery(`SELECT .* FROM "photos" WHERE id = `).
		WillReturnError(gorm.ErrRecordNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/v1/photos/x", nil)

	ctrl.DeletePhoto(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
