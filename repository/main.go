package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aperturelog/aperture/infra"
)

type Repository struct {
	PhotoRepo   *PhotoRepository
	CitySetRepo *CitySetRepository
	PostRepo    *PostRepository
	UserRepo    *UserRepository

	db *gorm.DB
}

func InitRepository(infra *infra.Infra) *Repository {
	return newRepository(infra.Postgres.DB)
}

func newRepository(db *gorm.DB) *Repository {
	return &Repository{
		PhotoRepo:   NewPhotoRepository(db),
		CitySetRepo: NewCitySetRepository(db),
		PostRepo:    NewPostRepository(db),
		UserRepo:    NewUserRepository(db),
		db:          db,
	}
}

// Transaction runs fn against a repository bound to a single database
// transaction. The photo delete path depends on this: cover reassignment and
// count decrement must never be observable halfway.
func (r *Repository) Transaction(fn func(txRepo *Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(newRepository(tx))
	})
}

// Cursor is the composite pagination cursor: last-updated descending with id
// as the deterministic tiebreaker.
type Cursor struct {
	ID        uuid.UUID `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
}
