package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/airfork/uts-dpm-sub000/internal/model"
)

// UserDpmRepository is the user_dpms data access interface.
type UserDpmRepository interface {
	Create(ctx context.Context, dpm *model.UserDpm) error
	GetByID(ctx context.Context, id int) (*model.UserDpm, error)
	Update(ctx context.Context, dpm *model.UserDpm) error
	ListUnapproved(ctx context.Context, offset, limit int) ([]model.UserDpm, int64, error)
	ListUnapprovedByManager(ctx context.Context, managerID int, offset, limit int) ([]model.UserDpm, int64, error)
	ListByUser(ctx context.Context, userID int, offset, limit int) ([]model.UserDpm, int64, error)
	ListRecentByUser(ctx context.Context, userID int, since time.Time) ([]model.UserDpm, error)
}

type userDpmRepo struct {
	db *gorm.DB
}

// NewUserDpmRepo creates the GORM-backed UserDpmRepository.
func NewUserDpmRepo(db *gorm.DB) UserDpmRepository {
	return &userDpmRepo{db: db}
}

func (r *userDpmRepo) Create(ctx context.Context, dpm *model.UserDpm) error {
	return r.db.WithContext(ctx).Create(dpm).Error
}

func (r *userDpmRepo) GetByID(ctx context.Context, id int) (*model.UserDpm, error) {
	var dpm model.UserDpm
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Manager").
		Preload("CreatedUser").
		Preload("DpmType").
		Where("id = ?", id).
		First(&dpm).Error
	if err != nil {
		return nil, err
	}
	return &dpm, nil
}

func (r *userDpmRepo) Update(ctx context.Context, dpm *model.UserDpm) error {
	return r.db.WithContext(ctx).Save(dpm).Error
}

func (r *userDpmRepo) ListUnapproved(ctx context.Context, offset, limit int) ([]model.UserDpm, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.UserDpm{}).
		Where("approved = FALSE AND ignored = FALSE")
	return r.page(q, offset, limit)
}

func (r *userDpmRepo) ListUnapprovedByManager(ctx context.Context, managerID int, offset, limit int) ([]model.UserDpm, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.UserDpm{}).
		Joins("JOIN users drivers ON drivers.id = user_dpms.user_id").
		Where("user_dpms.approved = FALSE AND user_dpms.ignored = FALSE AND drivers.manager_id = ?", managerID)
	return r.page(q, offset, limit)
}

func (r *userDpmRepo) ListByUser(ctx context.Context, userID int, offset, limit int) ([]model.UserDpm, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.UserDpm{}).
		Where("user_id = ?", userID)
	return r.page(q, offset, limit)
}

func (r *userDpmRepo) ListRecentByUser(ctx context.Context, userID int, since time.Time) ([]model.UserDpm, error) {
	var dpms []model.UserDpm
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND approved = TRUE AND ignored = FALSE", userID, since).
		Order("created_at DESC").
		Find(&dpms).Error
	if err != nil {
		return nil, err
	}
	return dpms, nil
}

// page applies count + preload + ordering + paging to a prepared query.
func (r *userDpmRepo) page(q *gorm.DB, offset, limit int) ([]model.UserDpm, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dpms []model.UserDpm
	err := q.
		Preload("User").
		Preload("CreatedUser").
		Order("user_dpms.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&dpms).Error
	if err != nil {
		return nil, 0, err
	}
	return dpms, total, nil
}
