package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/airfork/uts-dpm-sub000/internal/model"
)

// W2WColorRepository is the When2Work color access interface.
// Reference data for the autogen classifier; read-only to the core.
type W2WColorRepository interface {
	// ListActiveWithActiveTypes returns active colors having at least one
	// active DPM type attached, types preloaded.
	ListActiveWithActiveTypes(ctx context.Context) ([]model.W2WColor, error)
	Create(ctx context.Context, color *model.W2WColor) error
}

type w2wColorRepo struct {
	db *gorm.DB
}

// NewW2WColorRepo creates the GORM-backed W2WColorRepository.
func NewW2WColorRepo(db *gorm.DB) W2WColorRepository {
	return &w2wColorRepo{db: db}
}

func (r *w2wColorRepo) ListActiveWithActiveTypes(ctx context.Context) ([]model.W2WColor, error) {
	var colors []model.W2WColor
	err := r.db.WithContext(ctx).
		Where("active = TRUE AND EXISTS (SELECT 1 FROM dpm_types WHERE dpm_types.w2w_color_id = w2w_colors.id AND dpm_types.active = TRUE)").
		Preload("DpmTypes", "active = TRUE").
		Order("color_code").
		Find(&colors).Error
	if err != nil {
		return nil, err
	}
	return colors, nil
}

func (r *w2wColorRepo) Create(ctx context.Context, color *model.W2WColor) error {
	return r.db.WithContext(ctx).Create(color).Error
}
