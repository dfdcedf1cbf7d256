package postgres

import (
	"context"
	"errors"
	"time"

	"tontine-core/internal/model"

	"gorm.io/gorm"
)

type roundRepo struct {
	db *gorm.DB
}

func (r *roundRepo) Create(ctx context.Context, round *model.TontineRound) error {
	return r.db.WithContext(ctx).Create(round).Error
}

func (r *roundRepo) GetByID(ctx context.Context, id uint64) (*model.TontineRound, error) {
	var round model.TontineRound
	if err := r.db.WithContext(ctx).First(&round, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &round, nil
}

func (r *roundRepo) GetByNumber(ctx context.Context, cycleID uint64, roundNumber int) (*model.TontineRound, error) {
	var round model.TontineRound
	err := r.db.WithContext(ctx).
		Where("cycle_id = ? AND round_number = ?", cycleID, roundNumber).
		First(&round).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &round, nil
}

func (r *roundRepo) ListByCycle(ctx context.Context, cycleID uint64) ([]model.TontineRound, error) {
	var rounds []model.TontineRound
	err := r.db.WithContext(ctx).
		Preload("Collector").
		Where("cycle_id = ?", cycleID).
		Order("round_number ASC").
		Find(&rounds).Error
	return rounds, err
}

func (r *roundRepo) Open(ctx context.Context, id uint64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.TontineRound{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": model.RoundOpen, "started_at": at}).Error
}

func (r *roundRepo) Close(ctx context.Context, id uint64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.TontineRound{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": model.RoundClosed, "closed_at": at}).Error
}

func (r *roundRepo) UpdateCollector(ctx context.Context, cycleID uint64, roundNumber int, collectorUserID uint64) error {
	return r.db.WithContext(ctx).Model(&model.TontineRound{}).
		Where("cycle_id = ? AND round_number = ?", cycleID, roundNumber).
		Update("collector_user_id", collectorUserID).Error
}
