package service

import (
	"context"
	"errors"

	"tontine-core/internal/model"
	"tontine-core/internal/repository"
	"tontine-core/pkg/errno"
	"tontine-core/pkg/logger"
	"tontine-core/pkg/pagination"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TontineService owns the group definitions and the membership ledger,
// including the join auto-close threshold and the leave guard.
type TontineService struct {
	store repository.Store
}

func NewTontineService(store repository.Store) *TontineService {
	return &TontineService{store: store}
}

// CreateTontine persists a new open tontine and joins the creator as its
// first member in the same transaction.
func (s *TontineService) CreateTontine(ctx context.Context, tontine *model.Tontine) error {
	if !tontine.Amount.IsPositive() {
		return errno.ErrInvalidAmount
	}
	tontine.Status = model.TontineOpen

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Tontines().Create(ctx, tontine); err != nil {
			return err
		}
		return tx.Members().Add(ctx, &model.TontineMember{
			TontineID: tontine.ID,
			UserID:    tontine.OwnerID,
		})
	})
	if err != nil {
		logger.Error("tontine creation failed", zap.Error(err))
		return errno.ErrDatabase
	}

	logger.Info("tontine created",
		zap.Uint64("tontine_id", tontine.ID),
		zap.Uint64("owner_id", tontine.OwnerID),
		zap.String("policy", tontine.PickupPolicy))
	return nil
}

// ListTontines returns tontines with optional status filter, paginated
func (s *TontineService) ListTontines(ctx context.Context, status string, p pagination.Params) ([]model.Tontine, int64, error) {
	tontines, total, err := s.store.Tontines().List(ctx, status, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, errno.ErrDatabase
	}
	return tontines, total, nil
}

// TontineDetails is a tontine with its members and payment history embedded
type TontineDetails struct {
	model.Tontine
	MembersCount int                   `json:"members_count"`
	Members      []model.TontineMember `json:"members"`
	Payments     []model.Payment       `json:"payments"`
}

// GetTontine returns a tontine with members and payments embedded
func (s *TontineService) GetTontine(ctx context.Context, id uint64) (*TontineDetails, error) {
	tontine, err := s.store.Tontines().GetByID(ctx, id)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if tontine == nil {
		return nil, errno.ErrTontineNotFound
	}

	members, err := s.store.Members().ListByTontine(ctx, id)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	payments, err := s.store.Payments().ListByTontine(ctx, id)
	if err != nil {
		return nil, errno.ErrDatabase
	}

	return &TontineDetails{
		Tontine:      *tontine,
		MembersCount: len(members),
		Members:      members,
		Payments:     payments,
	}, nil
}

// UpdateTontine applies owner edits to a tontine's definition
func (s *TontineService) UpdateTontine(ctx context.Context, id, actorID uint64, apply func(*model.Tontine)) (*model.Tontine, error) {
	tontine, err := s.store.Tontines().GetByID(ctx, id)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if tontine == nil {
		return nil, errno.ErrTontineNotFound
	}
	if tontine.OwnerID != actorID {
		return nil, errno.ErrNotOwner
	}

	apply(tontine)
	if !tontine.Amount.IsPositive() {
		return nil, errno.ErrInvalidAmount
	}
	if err := s.store.Tontines().Update(ctx, tontine); err != nil {
		return nil, errno.ErrDatabase
	}
	return tontine, nil
}

// DeleteTontine removes a tontine and its members. Owner only.
func (s *TontineService) DeleteTontine(ctx context.Context, id, actorID uint64) error {
	tontine, err := s.store.Tontines().GetByID(ctx, id)
	if err != nil {
		return errno.ErrDatabase
	}
	if tontine == nil {
		return errno.ErrTontineNotFound
	}
	if tontine.OwnerID != actorID {
		return errno.ErrNotOwner
	}

	if err := s.store.Tontines().Delete(ctx, id); err != nil {
		return errno.ErrDatabase
	}
	logger.Info("tontine deleted", zap.Uint64("tontine_id", id))
	return nil
}

// JoinTontine adds the user to an open tontine. Reaching min_members closes
// the tontine; closed tontines never reopen automatically.
// Returns the tontine status after joining.
func (s *TontineService) JoinTontine(ctx context.Context, tontineID, userID uint64) (string, error) {
	tontine, err := s.store.Tontines().GetByID(ctx, tontineID)
	if err != nil {
		return "", errno.ErrDatabase
	}
	if tontine == nil {
		return "", errno.ErrTontineNotFound
	}
	if tontine.Status != model.TontineOpen {
		return "", errno.ErrTontineClosed
	}

	isMember, err := s.store.Members().IsMember(ctx, tontineID, userID)
	if err != nil {
		return "", errno.ErrDatabase
	}
	if isMember {
		return "", errno.ErrAlreadyMember
	}

	status := tontine.Status
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Members().Add(ctx, &model.TontineMember{
			TontineID: tontineID,
			UserID:    userID,
		}); err != nil {
			return err
		}

		count, err := tx.Members().Count(ctx, tontineID)
		if err != nil {
			return err
		}
		if count >= int64(tontine.MinMembers) {
			status = model.TontineClosed
			return tx.Tontines().UpdateStatus(ctx, tontineID, model.TontineClosed)
		}
		return nil
	})
	if err != nil {
		// the (tontine, user) unique index closes the concurrent-join race
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", errno.ErrAlreadyMember
		}
		return "", errno.ErrDatabase
	}

	if status == model.TontineClosed {
		logger.Info("tontine reached capacity and closed", zap.Uint64("tontine_id", tontineID))
	}
	return status, nil
}

// LeaveTontine removes a member, allowed only once every cycle of the tontine
// has run to completion. Owners can never leave.
func (s *TontineService) LeaveTontine(ctx context.Context, tontineID, userID uint64) error {
	tontine, err := s.store.Tontines().GetByID(ctx, tontineID)
	if err != nil {
		return errno.ErrDatabase
	}
	if tontine == nil {
		return errno.ErrTontineNotFound
	}

	isMember, err := s.store.Members().IsMember(ctx, tontineID, userID)
	if err != nil {
		return errno.ErrDatabase
	}
	if !isMember {
		return errno.ErrNotMember
	}

	if tontine.OwnerID == userID {
		return errno.ErrOwnerCannotLeave
	}

	cycles, err := s.store.Cycles().ListByTontine(ctx, tontineID)
	if err != nil {
		return errno.ErrDatabase
	}
	if len(cycles) == 0 {
		return errno.ErrCannotLeave.WithMessage("Cannot leave tontine without any completed cycles")
	}

	for _, cycle := range cycles {
		if cycle.Status == model.CycleActive || cycle.Status == model.CyclePending {
			return errno.ErrCannotLeave.WithMessage("Cannot leave tontine while there are active or pending cycles")
		}
	}
	for _, cycle := range cycles {
		if cycle.Status != model.CycleCompleted {
			return errno.ErrCannotLeave.WithMessage("Cannot leave tontine until all cycles are completed")
		}
	}

	for _, cycle := range cycles {
		rounds, err := s.store.Rounds().ListByCycle(ctx, cycle.ID)
		if err != nil {
			return errno.ErrDatabase
		}
		for _, round := range rounds {
			if round.Status != model.RoundClosed {
				return errno.ErrCannotLeave.WithMessage("Cannot leave tontine until all rounds are completed")
			}
		}
	}

	if err := s.store.Members().Remove(ctx, tontineID, userID); err != nil {
		return errno.ErrDatabase
	}

	logger.Info("member left tontine", zap.Uint64("tontine_id", tontineID), zap.Uint64("user_id", userID))
	return nil
}

// GetMembers returns the member list of a tontine in join order
func (s *TontineService) GetMembers(ctx context.Context, tontineID uint64) ([]model.TontineMember, error) {
	tontine, err := s.store.Tontines().GetByID(ctx, tontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if tontine == nil {
		return nil, errno.ErrTontineNotFound
	}

	members, err := s.store.Members().ListByTontine(ctx, tontineID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	return members, nil
}

// UserTontines splits a user's tontines into owned and member-only
type UserTontines struct {
	Owned  []model.Tontine `json:"owned"`
	Member []model.Tontine `json:"member"`
}

// GetUserTontines returns all tontines the user owns or belongs to
func (s *TontineService) GetUserTontines(ctx context.Context, userID uint64) (*UserTontines, error) {
	owned, err := s.store.Tontines().ListByOwner(ctx, userID)
	if err != nil {
		return nil, errno.ErrDatabase
	}

	ownedIDs := make(map[uint64]bool, len(owned))
	for _, t := range owned {
		ownedIDs[t.ID] = true
	}

	memberships, err := s.store.Members().ListByUser(ctx, userID)
	if err != nil {
		return nil, errno.ErrDatabase
	}

	member := []model.Tontine{}
	for _, m := range memberships {
		if ownedIDs[m.TontineID] {
			continue
		}
		tontine, err := s.store.Tontines().GetByID(ctx, m.TontineID)
		if err != nil {
			return nil, errno.ErrDatabase
		}
		if tontine != nil {
			member = append(member, *tontine)
		}
	}

	return &UserTontines{Owned: owned, Member: member}, nil
}
