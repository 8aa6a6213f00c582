package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates all repository interfaces.
type Repository struct {
	db *gorm.DB

	User           UserRepository
	UserDpm        UserDpmRepository
	DpmType        DpmTypeRepository
	W2WColor       W2WColorRepository
	AutoSubmission AutoSubmissionRepository
}

// New creates the Repository aggregate.
func New(db *gorm.DB) *Repository {
	return &Repository{
		db:             db,
		User:           NewUserRepo(db),
		UserDpm:        NewUserDpmRepo(db),
		DpmType:        NewDpmTypeRepo(db),
		W2WColor:       NewW2WColorRepo(db),
		AutoSubmission: NewAutoSubmissionRepo(db),
	}
}

// BeginTx opens a database transaction.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx returns a Repository whose members run on the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return New(tx)
}

// Transaction runs fn inside one transaction, committing on nil and
// rolling back on error or panic. A Repository assembled without a backing
// database (mock-backed, in tests) runs fn directly.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
