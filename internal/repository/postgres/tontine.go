package postgres

import (
	"context"
	"errors"

	"tontine-core/internal/model"

	"gorm.io/gorm"
)

type tontineRepo struct {
	db *gorm.DB
}

func (r *tontineRepo) Create(ctx context.Context, tontine *model.Tontine) error {
	return r.db.WithContext(ctx).Create(tontine).Error
}

func (r *tontineRepo) GetByID(ctx context.Context, id uint64) (*model.Tontine, error) {
	var tontine model.Tontine
	if err := r.db.WithContext(ctx).First(&tontine, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tontine, nil
}

func (r *tontineRepo) List(ctx context.Context, status string, limit, offset int) ([]model.Tontine, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Tontine{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tontines []model.Tontine
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&tontines).Error
	if err != nil {
		return nil, 0, err
	}
	return tontines, total, nil
}

func (r *tontineRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Tontine, error) {
	var tontines []model.Tontine
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&tontines).Error
	return tontines, err
}

func (r *tontineRepo) Update(ctx context.Context, tontine *model.Tontine) error {
	return r.db.WithContext(ctx).Save(tontine).Error
}

func (r *tontineRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	return r.db.WithContext(ctx).Model(&model.Tontine{}).
		Where("id = ?", id).Update("status", status).Error
}

func (r *tontineRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Select("Members").Delete(&model.Tontine{ID: id}).Error
}
