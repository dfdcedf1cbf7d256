package postgres

import (
	"context"

	"tontine-core/internal/repository"

	"gorm.io/gorm"
)

// Store is the gorm-backed implementation of repository.Store
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() repository.UserRepository               { return &userRepo{db: s.db} }
func (s *Store) Tontines() repository.TontineRepository         { return &tontineRepo{db: s.db} }
func (s *Store) Members() repository.MemberRepository           { return &memberRepo{db: s.db} }
func (s *Store) Cycles() repository.CycleRepository             { return &cycleRepo{db: s.db} }
func (s *Store) PayoutOrders() repository.PayoutOrderRepository { return &payoutOrderRepo{db: s.db} }
func (s *Store) Rounds() repository.RoundRepository             { return &roundRepo{db: s.db} }
func (s *Store) Payments() repository.PaymentRepository         { return &paymentRepo{db: s.db} }

// Transaction binds a nested Store to one gorm transaction
func (s *Store) Transaction(ctx context.Context, fn func(repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
