package postgres

import (
	"context"
	"errors"

	"tontine-core/internal/model"

	"gorm.io/gorm"
)

type cycleRepo struct {
	db *gorm.DB
}

func (r *cycleRepo) Create(ctx context.Context, cycle *model.TontineCycle) error {
	return r.db.WithContext(ctx).Create(cycle).Error
}

func (r *cycleRepo) GetByID(ctx context.Context, id uint64) (*model.TontineCycle, error) {
	var cycle model.TontineCycle
	if err := r.db.WithContext(ctx).First(&cycle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cycle, nil
}

func (r *cycleRepo) ListByTontine(ctx context.Context, tontineID uint64) ([]model.TontineCycle, error) {
	var cycles []model.TontineCycle
	err := r.db.WithContext(ctx).
		Where("tontine_id = ?", tontineID).
		Order("created_at DESC").
		Find(&cycles).Error
	return cycles, err
}

func (r *cycleRepo) FindActive(ctx context.Context, tontineID uint64) (*model.TontineCycle, error) {
	var cycle model.TontineCycle
	err := r.db.WithContext(ctx).
		Where("tontine_id = ? AND status IN ?", tontineID, []string{model.CyclePending, model.CycleActive}).
		First(&cycle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cycle, nil
}

func (r *cycleRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	return r.db.WithContext(ctx).Model(&model.TontineCycle{}).
		Where("id = ?", id).Update("status", status).Error
}

func (r *cycleRepo) UpdateCurrentRound(ctx context.Context, id uint64, roundNumber int) error {
	return r.db.WithContext(ctx).Model(&model.TontineCycle{}).
		Where("id = ?", id).Update("current_round", roundNumber).Error
}
