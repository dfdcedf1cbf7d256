package postgres

import (
	"context"

	"tontine-core/internal/model"

	"gorm.io/gorm"
)

type memberRepo struct {
	db *gorm.DB
}

func (r *memberRepo) Add(ctx context.Context, member *model.TontineMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepo) ListByTontine(ctx context.Context, tontineID uint64) ([]model.TontineMember, error) {
	var members []model.TontineMember
	// joined_at then id keeps equal-timestamp members in insertion order
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("tontine_id = ?", tontineID).
		Order("joined_at ASC, id ASC").
		Find(&members).Error
	return members, err
}

func (r *memberRepo) ListByUser(ctx context.Context, userID uint64) ([]model.TontineMember, error) {
	var members []model.TontineMember
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&members).Error
	return members, err
}

func (r *memberRepo) Count(ctx context.Context, tontineID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TontineMember{}).
		Where("tontine_id = ?", tontineID).Count(&count).Error
	return count, err
}

func (r *memberRepo) IsMember(ctx context.Context, tontineID, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TontineMember{}).
		Where("tontine_id = ? AND user_id = ?", tontineID, userID).Count(&count).Error
	return count > 0, err
}

func (r *memberRepo) Remove(ctx context.Context, tontineID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("tontine_id = ? AND user_id = ?", tontineID, userID).
		Delete(&model.TontineMember{}).Error
}
