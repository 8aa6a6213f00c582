package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/airfork/uts-dpm-sub000/internal/model"
)

// AutoSubmissionRepository is the idempotency-marker access interface.
type AutoSubmissionRepository interface {
	Create(ctx context.Context, sub *model.AutoSubmission) error
	// GetMostRecent returns the latest marker, or nil when none exists.
	GetMostRecent(ctx context.Context) (*model.AutoSubmission, error)
	// AcquireSubmitLock takes the transaction-scoped advisory lock that
	// serializes batch commits across processes. It blocks until the lock
	// is held and releases automatically at commit or rollback, so it must
	// run inside a transaction.
	AcquireSubmitLock(ctx context.Context) error
	// DeleteSubmittedBefore removes markers older than the cutoff and
	// returns the number of rows removed.
	DeleteSubmittedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type autoSubmissionRepo struct {
	db *gorm.DB
}

// NewAutoSubmissionRepo creates the GORM-backed AutoSubmissionRepository.
func NewAutoSubmissionRepo(db *gorm.DB) AutoSubmissionRepository {
	return &autoSubmissionRepo{db: db}
}

func (r *autoSubmissionRepo) Create(ctx context.Context, sub *model.AutoSubmission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *autoSubmissionRepo) GetMostRecent(ctx context.Context) (*model.AutoSubmission, error) {
	return r.mostRecent(r.db.WithContext(ctx))
}

func (r *autoSubmissionRepo) AcquireSubmitLock(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext('autogen_submit'))").Error
}

func (r *autoSubmissionRepo) mostRecent(db *gorm.DB) (*model.AutoSubmission, error) {
	var sub model.AutoSubmission
	err := db.Order("submitted DESC").First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *autoSubmissionRepo) DeleteSubmittedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("submitted < ?", cutoff).
		Delete(&model.AutoSubmission{})
	return res.RowsAffected, res.Error
}
