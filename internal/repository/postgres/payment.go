package postgres

import (
	"context"
	"errors"

	"tontine-core/internal/model"

	"gorm.io/gorm"
)

type paymentRepo struct {
	db *gorm.DB
}

func (r *paymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepo) GetByUserAndRound(ctx context.Context, userID, roundID uint64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND round_id = ?", userID, roundID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepo) ListByRound(ctx context.Context, roundID uint64, limit, offset int) ([]model.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Payment{}).Where("round_id = ?", roundID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []model.Payment
	q := r.db.WithContext(ctx).Preload("User").Where("round_id = ?", roundID)
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *paymentRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Payment{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []model.Payment
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("paid_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *paymentRepo) ListByTontine(ctx context.Context, tontineID uint64) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Joins("JOIN tontine_rounds ON tontine_rounds.id = payments.round_id").
		Joins("JOIN tontine_cycles ON tontine_cycles.id = tontine_rounds.cycle_id").
		Where("tontine_cycles.tontine_id = ?", tontineID).
		Order("payments.paid_at DESC").
		Find(&payments).Error
	return payments, err
}
