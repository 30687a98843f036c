package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aperturelog/aperture/entity"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return newRepository(gdb), mock
}

func groupedPhoto(id uuid.UUID) *entity.Photo {
	country := "Italy"
	code := "IT"
	city := "Rome"
	return &entity.Photo{
		ID:          id,
		Country:     &country,
		CountryCode: &code,
		City:        &city,
	}
}

func TestApplyPhotoInsertUpsertsInOneStatement(t *testing.T) {
	repo, mock := newMockRepository(t)
	photo := groupedPhoto(uuid.New())

	// The whole insert-or-bump lands in a single INSERT ... ON CONFLICT so
	// concurrent uploads into the same city cannot race a read-modify-write.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "city_sets" .* ON CONFLICT \("country","city"\) DO UPDATE SET .*"cover_photo_id"=COALESCE\(city_sets\.cover_photo_id,.*"photo_count"=city_sets\.photo_count \+ 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	require.NoError(t, repo.CitySetRepo.ApplyPhotoInsert(photo))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPhotoInsertSkipsUngroupedPhoto(t *testing.T) {
	repo, mock := newMockRepository(t)

	// No country, no resolved city: no SQL at all.
	require.NoError(t, repo.CitySetRepo.ApplyPhotoInsert(&entity.Photo{ID: uuid.New()}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPhotoDeleteRemovesSetForLastPhoto(t *testing.T) {
	repo, mock := newMockRepository(t)
	photoID := uuid.New()
	setID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "city_sets" WHERE country = .* FOR UPDATE`).
		WillReturnRows(citySetRows(setID, photoID, 1))
	mock.ExpectExec(`DELETE FROM "city_sets" WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Transaction(func(tx *Repository) error {
		return tx.CitySetRepo.ApplyPhotoDelete(tx.PhotoRepo, groupedPhoto(photoID))
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPhotoDeleteDecrementsWhenCoverSurvives(t *testing.T) {
	repo, mock := newMockRepository(t)
	photoID := uuid.New()
	setID := uuid.New()
	coverID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "city_sets" WHERE country = .* FOR UPDATE`).
		WillReturnRows(citySetRows(setID, coverID, 3))
	// Deleted photo is not the cover: plain decrement, cover untouched.
	mock.ExpectExec(`UPDATE "city_sets" SET "photo_count"=photo_count - 1,"updated_at"=\$\d+ WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Transaction(func(tx *Repository) error {
		return tx.CitySetRepo.ApplyPhotoDelete(tx.PhotoRepo, groupedPhoto(photoID))
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPhotoDeleteReassignsCoverInSameUpdate(t *testing.T) {
	repo, mock := newMockRepository(t)
	photoID := uuid.New()
	setID := uuid.New()
	replacementID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "city_sets" WHERE country = .* FOR UPDATE`).
		WillReturnRows(citySetRows(setID, photoID, 2))
	mock.ExpectQuery(`SELECT .* FROM "photos" WHERE country = .* AND id <> `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "country", "country_code", "city"}).
			AddRow(replacementID.String(), "Italy", "IT", "Rome"))
	// Reassignment and decrement share one UPDATE so the cover never dangles.
	mock.ExpectExec(`UPDATE "city_sets" SET "cover_photo_id"=\$\d+,"photo_count"=photo_count - 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Transaction(func(tx *Repository) error {
		return tx.CitySetRepo.ApplyPhotoDelete(tx.PhotoRepo, groupedPhoto(photoID))
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPhotoDeleteDropsStaleSetWithoutReplacement(t *testing.T) {
	repo, mock := newMockRepository(t)
	photoID := uuid.New()
	setID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "city_sets" WHERE country = .* FOR UPDATE`).
		WillReturnRows(citySetRows(setID, photoID, 2))
	// Count says photos remain, but no row resolves to the city anymore.
	mock.ExpectQuery(`SELECT .* FROM "photos" WHERE country = .* AND id <> `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "country", "country_code", "city"}))
	mock.ExpectExec(`DELETE FROM "city_sets" WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Transaction(func(tx *Repository) error {
		return tx.CitySetRepo.ApplyPhotoDelete(tx.PhotoRepo, groupedPhoto(photoID))
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPhotoDeleteIgnoresMissingSet(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "city_sets" WHERE country = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "country", "city", "cover_photo_id", "photo_count"}))
	mock.ExpectCommit()

	err := repo.Transaction(func(tx *Repository) error {
		return tx.CitySetRepo.ApplyPhotoDelete(tx.PhotoRepo, groupedPhoto(uuid.New()))
	})
	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func citySetRows(setID, coverID uuid.UUID, count int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "country", "city", "cover_photo_id", "photo_count"}).
		AddRow(setID.String(), "Italy", "Rome", coverID.String(), count)
}
