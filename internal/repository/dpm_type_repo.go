package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/airfork/uts-dpm-sub000/internal/model"
)

// DpmTypeRepository is the DPM type catalog access interface.
// The catalog is administered out of band; the core only reads it.
type DpmTypeRepository interface {
	GetByID(ctx context.Context, id int) (*model.DpmType, error)
	ListGroupsWithActiveTypes(ctx context.Context) ([]model.DpmGroup, error)
	Create(ctx context.Context, t *model.DpmType) error
	CreateGroup(ctx context.Context, g *model.DpmGroup) error
	CountTypes(ctx context.Context) (int64, error)
}

type dpmTypeRepo struct {
	db *gorm.DB
}

// NewDpmTypeRepo creates the GORM-backed DpmTypeRepository.
func NewDpmTypeRepo(db *gorm.DB) DpmTypeRepository {
	return &dpmTypeRepo{db: db}
}

func (r *dpmTypeRepo) GetByID(ctx context.Context, id int) (*model.DpmType, error) {
	var t model.DpmType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *dpmTypeRepo) ListGroupsWithActiveTypes(ctx context.Context) ([]model.DpmGroup, error) {
	var groups []model.DpmGroup
	err := r.db.WithContext(ctx).
		Where("active = TRUE").
		Preload("DpmTypes", "active = TRUE").
		Order("group_name").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *dpmTypeRepo) Create(ctx context.Context, t *model.DpmType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *dpmTypeRepo) CreateGroup(ctx context.Context, g *model.DpmGroup) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *dpmTypeRepo) CountTypes(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.DpmType{}).Count(&n).Error
	return n, err
}
