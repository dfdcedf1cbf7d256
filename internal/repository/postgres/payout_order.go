package postgres

import (
	"context"
	"time"

	"tontine-core/internal/model"

	"gorm.io/gorm"
)

type payoutOrderRepo struct {
	db *gorm.DB
}

func (r *payoutOrderRepo) BulkCreate(ctx context.Context, entries []model.TontinePayoutOrder) error {
	if len(entries) == 0 {
		return nil
	}
	// single INSERT, all rows or none
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *payoutOrderRepo) ListByCycle(ctx context.Context, cycleID uint64) ([]model.TontinePayoutOrder, error) {
	var entries []model.TontinePayoutOrder
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("cycle_id = ?", cycleID).
		Order("position ASC").
		Find(&entries).Error
	return entries, err
}

func (r *payoutOrderRepo) DeleteByCycle(ctx context.Context, cycleID uint64) error {
	return r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Delete(&model.TontinePayoutOrder{}).Error
}

func (r *payoutOrderRepo) MarkCollected(ctx context.Context, cycleID, userID uint64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.TontinePayoutOrder{}).
		Where("cycle_id = ? AND user_id = ?", cycleID, userID).
		Updates(map[string]interface{}{"has_collected": true, "collected_at": at}).Error
}
