package service

import (
	"context"
	"time"

	"tontine-core/internal/model"
	"tontine-core/internal/repository"
	"tontine-core/pkg/errno"
	"tontine-core/pkg/logger"

	"go.uber.org/zap"
)

// RoundService sequences the rounds of a cycle: it gates closing on full
// payment collection and advances the cycle to the next round or completion.
type RoundService struct {
	store repository.Store
}

func NewRoundService(store repository.Store) *RoundService {
	return &RoundService{store: store}
}

// GetRound returns a single round
func (s *RoundService) GetRound(ctx context.Context, roundID uint64) (*model.TontineRound, error) {
	round, err := s.store.Rounds().GetByID(ctx, roundID)
	if err != nil {
		return nil, errno.ErrDatabase
	}
	if round == nil {
		return nil, errno.ErrRoundNotFound
	}
	return round, nil
}

// CloseRound closes an open round once every payment for it is completed,
// marks the collector's payout entry as collected, then either opens the next
// round or completes the cycle. Closing and advancing happen in one
// transaction; a failure rolls both back. Owner only.
//
// Returns the closed round and whether the cycle completed with it.
func (s *RoundService) CloseRound(ctx context.Context, roundID, actorID uint64) (*model.TontineRound, bool, error) {
	round, err := s.store.Rounds().GetByID(ctx, roundID)
	if err != nil {
		return nil, false, errno.ErrDatabase
	}
	if round == nil {
		return nil, false, errno.ErrRoundNotFound
	}

	cycle, err := s.store.Cycles().GetByID(ctx, round.CycleID)
	if err != nil {
		return nil, false, errno.ErrDatabase
	}
	if cycle == nil {
		return nil, false, errno.ErrCycleNotFound
	}

	tontine, err := s.store.Tontines().GetByID(ctx, cycle.TontineID)
	if err != nil {
		return nil, false, errno.ErrDatabase
	}
	if tontine == nil {
		return nil, false, errno.ErrTontineNotFound
	}
	if tontine.OwnerID != actorID {
		return nil, false, errno.ErrNotOwner.WithMessage("Only the owner can close a round")
	}
	if round.Status != model.RoundOpen {
		return nil, false, errno.ErrRoundNotOpen
	}

	// gate: at least one payment, and every one of them completed
	payments, _, err := s.store.Payments().ListByRound(ctx, roundID, 0, 0)
	if err != nil {
		return nil, false, errno.ErrDatabase
	}
	allPaid := len(payments) > 0
	for _, p := range payments {
		if p.Status != model.PaymentCompleted {
			allPaid = false
			break
		}
	}
	if !allPaid {
		return nil, false, errno.ErrPaymentsIncomplete
	}

	now := time.Now()
	nextRoundNumber := round.RoundNumber + 1
	completed := nextRoundNumber > cycle.TotalRounds

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Rounds().Close(ctx, roundID, now); err != nil {
			return err
		}

		// the collector received the pot of this round
		if err := tx.PayoutOrders().MarkCollected(ctx, cycle.ID, round.CollectorUserID, now); err != nil {
			return err
		}

		if completed {
			return tx.Cycles().UpdateStatus(ctx, cycle.ID, model.CycleCompleted)
		}

		next, err := tx.Rounds().GetByNumber(ctx, cycle.ID, nextRoundNumber)
		if err != nil {
			return err
		}
		if next == nil {
			return errno.ErrRoundNotFound.WithMessagef("Round %d not found for cycle %d", nextRoundNumber, cycle.ID)
		}
		if err := tx.Rounds().Open(ctx, next.ID, now); err != nil {
			return err
		}
		return tx.Cycles().UpdateCurrentRound(ctx, cycle.ID, nextRoundNumber)
	})
	if err != nil {
		logger.Error("round close failed", zap.Uint64("round_id", roundID), zap.Error(err))
		return nil, false, errno.ErrDatabase
	}

	if completed {
		logger.Info("cycle completed", zap.Uint64("cycle_id", cycle.ID), zap.Int("total_rounds", cycle.TotalRounds))
	} else {
		logger.Info("round closed, next round opened",
			zap.Uint64("round_id", roundID),
			zap.Int("next_round", nextRoundNumber))
	}

	closed, err := s.store.Rounds().GetByID(ctx, roundID)
	if err != nil || closed == nil {
		return nil, false, errno.ErrDatabase
	}
	return closed, completed, nil
}
