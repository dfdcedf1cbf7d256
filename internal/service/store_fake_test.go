package service

import (
	"context"
	"sort"
	"time"

	"tontine-core/internal/model"
	"tontine-core/internal/repository"

	"gorm.io/gorm"
)

// fakeStore is an in-memory repository.Store for service tests. It enforces
// the same unique constraints the real schema does, returning
// gorm.ErrDuplicatedKey so the services' duplicate handling is exercised.
type fakeStore struct {
	users        []model.User
	tontines     []model.Tontine
	members      []model.TontineMember
	cycles       []model.TontineCycle
	payoutOrders []model.TontinePayoutOrder
	rounds       []model.TontineRound
	payments     []model.Payment

	nextID uint64
	clock  time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *fakeStore) id() uint64 {
	id := s.nextID
	s.nextID++
	return id
}

// tick returns a strictly increasing timestamp so join order is unambiguous
func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *fakeStore) Users() repository.UserRepository               { return (*fakeUsers)(s) }
func (s *fakeStore) Tontines() repository.TontineRepository         { return (*fakeTontines)(s) }
func (s *fakeStore) Members() repository.MemberRepository           { return (*fakeMembers)(s) }
func (s *fakeStore) Cycles() repository.CycleRepository             { return (*fakeCycles)(s) }
func (s *fakeStore) PayoutOrders() repository.PayoutOrderRepository { return (*fakePayoutOrders)(s) }
func (s *fakeStore) Rounds() repository.RoundRepository             { return (*fakeRounds)(s) }
func (s *fakeStore) Payments() repository.PaymentRepository         { return (*fakePayments)(s) }

func (s *fakeStore) Transaction(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

type fakeUsers fakeStore

func (r *fakeUsers) Create(ctx context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = (*fakeStore)(r).id()
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUsers) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUsers) Update(ctx context.Context, user *model.User) error {
	for i := range r.users {
		if r.users[i].ID != user.ID && r.users[i].Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return nil
}

type fakeTontines fakeStore

func (r *fakeTontines) Create(ctx context.Context, tontine *model.Tontine) error {
	tontine.ID = (*fakeStore)(r).id()
	r.tontines = append(r.tontines, *tontine)
	return nil
}

func (r *fakeTontines) GetByID(ctx context.Context, id uint64) (*model.Tontine, error) {
	for i := range r.tontines {
		if r.tontines[i].ID == id {
			t := r.tontines[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (r *fakeTontines) List(ctx context.Context, status string, limit, offset int) ([]model.Tontine, int64, error) {
	var out []model.Tontine
	for _, t := range r.tontines {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	total := int64(len(out))
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeTontines) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Tontine, error) {
	var out []model.Tontine
	for _, t := range r.tontines {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTontines) Update(ctx context.Context, tontine *model.Tontine) error {
	for i := range r.tontines {
		if r.tontines[i].ID == tontine.ID {
			r.tontines[i] = *tontine
			return nil
		}
	}
	return nil
}

func (r *fakeTontines) UpdateStatus(ctx context.Context, id uint64, status string) error {
	for i := range r.tontines {
		if r.tontines[i].ID == id {
			r.tontines[i].Status = status
			return nil
		}
	}
	return nil
}

func (r *fakeTontines) Delete(ctx context.Context, id uint64) error {
	for i := range r.tontines {
		if r.tontines[i].ID == id {
			r.tontines = append(r.tontines[:i], r.tontines[i+1:]...)
			break
		}
	}
	var kept []model.TontineMember
	for _, m := range r.members {
		if m.TontineID != id {
			kept = append(kept, m)
		}
	}
	r.members = kept
	return nil
}

type fakeMembers fakeStore

func (r *fakeMembers) Add(ctx context.Context, member *model.TontineMember) error {
	for _, m := range r.members {
		if m.TontineID == member.TontineID && m.UserID == member.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	member.ID = (*fakeStore)(r).id()
	if member.JoinedAt.IsZero() {
		member.JoinedAt = (*fakeStore)(r).tick()
	}
	r.members = append(r.members, *member)
	return nil
}

func (r *fakeMembers) ListByTontine(ctx context.Context, tontineID uint64) ([]model.TontineMember, error) {
	var out []model.TontineMember
	for _, m := range r.members {
		if m.TontineID == tontineID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeMembers) ListByUser(ctx context.Context, userID uint64) ([]model.TontineMember, error) {
	var out []model.TontineMember
	for _, m := range r.members {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMembers) Count(ctx context.Context, tontineID uint64) (int64, error) {
	var n int64
	for _, m := range r.members {
		if m.TontineID == tontineID {
			n++
		}
	}
	return n, nil
}

func (r *fakeMembers) IsMember(ctx context.Context, tontineID, userID uint64) (bool, error) {
	for _, m := range r.members {
		if m.TontineID == tontineID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMembers) Remove(ctx context.Context, tontineID, userID uint64) error {
	for i, m := range r.members {
		if m.TontineID == tontineID && m.UserID == userID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeCycles fakeStore

func (r *fakeCycles) Create(ctx context.Context, cycle *model.TontineCycle) error {
	// mirrors the partial unique index: at most one pending or active
	// cycle per tontine
	for _, c := range r.cycles {
		if c.TontineID == cycle.TontineID && (c.Status == model.CyclePending || c.Status == model.CycleActive) {
			return gorm.ErrDuplicatedKey
		}
	}
	cycle.ID = (*fakeStore)(r).id()
	if cycle.Status == "" {
		cycle.Status = model.CyclePending
	}
	r.cycles = append(r.cycles, *cycle)
	return nil
}

func (r *fakeCycles) GetByID(ctx context.Context, id uint64) (*model.TontineCycle, error) {
	for i := range r.cycles {
		if r.cycles[i].ID == id {
			c := r.cycles[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCycles) ListByTontine(ctx context.Context, tontineID uint64) ([]model.TontineCycle, error) {
	var out []model.TontineCycle
	for i := len(r.cycles) - 1; i >= 0; i-- {
		if r.cycles[i].TontineID == tontineID {
			out = append(out, r.cycles[i])
		}
	}
	return out, nil
}

func (r *fakeCycles) FindActive(ctx context.Context, tontineID uint64) (*model.TontineCycle, error) {
	for i := range r.cycles {
		c := r.cycles[i]
		if c.TontineID == tontineID && (c.Status == model.CyclePending || c.Status == model.CycleActive) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCycles) UpdateStatus(ctx context.Context, id uint64, status string) error {
	for i := range r.cycles {
		if r.cycles[i].ID == id {
			r.cycles[i].Status = status
			return nil
		}
	}
	return nil
}

func (r *fakeCycles) UpdateCurrentRound(ctx context.Context, id uint64, roundNumber int) error {
	for i := range r.cycles {
		if r.cycles[i].ID == id {
			r.cycles[i].CurrentRound = roundNumber
			return nil
		}
	}
	return nil
}

type fakePayoutOrders fakeStore

func (r *fakePayoutOrders) BulkCreate(ctx context.Context, entries []model.TontinePayoutOrder) error {
	for _, e := range entries {
		for _, existing := range r.payoutOrders {
			if existing.CycleID == e.CycleID && (existing.UserID == e.UserID || existing.Position == e.Position) {
				return gorm.ErrDuplicatedKey
			}
		}
		e.ID = (*fakeStore)(r).id()
		r.payoutOrders = append(r.payoutOrders, e)
	}
	return nil
}

func (r *fakePayoutOrders) ListByCycle(ctx context.Context, cycleID uint64) ([]model.TontinePayoutOrder, error) {
	var out []model.TontinePayoutOrder
	for _, e := range r.payoutOrders {
		if e.CycleID == cycleID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakePayoutOrders) DeleteByCycle(ctx context.Context, cycleID uint64) error {
	var kept []model.TontinePayoutOrder
	for _, e := range r.payoutOrders {
		if e.CycleID != cycleID {
			kept = append(kept, e)
		}
	}
	r.payoutOrders = kept
	return nil
}

func (r *fakePayoutOrders) MarkCollected(ctx context.Context, cycleID, userID uint64, at time.Time) error {
	for i := range r.payoutOrders {
		if r.payoutOrders[i].CycleID == cycleID && r.payoutOrders[i].UserID == userID {
			r.payoutOrders[i].HasCollected = true
			t := at
			r.payoutOrders[i].CollectedAt = &t
			return nil
		}
	}
	return nil
}

type fakeRounds fakeStore

func (r *fakeRounds) Create(ctx context.Context, round *model.TontineRound) error {
	for _, existing := range r.rounds {
		if existing.CycleID == round.CycleID && existing.RoundNumber == round.RoundNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	round.ID = (*fakeStore)(r).id()
	if round.Status == "" {
		round.Status = model.RoundPending
	}
	r.rounds = append(r.rounds, *round)
	return nil
}

func (r *fakeRounds) GetByID(ctx context.Context, id uint64) (*model.TontineRound, error) {
	for i := range r.rounds {
		if r.rounds[i].ID == id {
			rd := r.rounds[i]
			return &rd, nil
		}
	}
	return nil, nil
}

func (r *fakeRounds) GetByNumber(ctx context.Context, cycleID uint64, roundNumber int) (*model.TontineRound, error) {
	for i := range r.rounds {
		if r.rounds[i].CycleID == cycleID && r.rounds[i].RoundNumber == roundNumber {
			rd := r.rounds[i]
			return &rd, nil
		}
	}
	return nil, nil
}

func (r *fakeRounds) ListByCycle(ctx context.Context, cycleID uint64) ([]model.TontineRound, error) {
	var out []model.TontineRound
	for _, rd := range r.rounds {
		if rd.CycleID == cycleID {
			out = append(out, rd)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoundNumber < out[j].RoundNumber })
	return out, nil
}

func (r *fakeRounds) Open(ctx context.Context, id uint64, at time.Time) error {
	for i := range r.rounds {
		if r.rounds[i].ID == id {
			r.rounds[i].Status = model.RoundOpen
			t := at
			r.rounds[i].StartedAt = &t
			return nil
		}
	}
	return nil
}

func (r *fakeRounds) Close(ctx context.Context, id uint64, at time.Time) error {
	for i := range r.rounds {
		if r.rounds[i].ID == id {
			r.rounds[i].Status = model.RoundClosed
			t := at
			r.rounds[i].ClosedAt = &t
			return nil
		}
	}
	return nil
}

func (r *fakeRounds) UpdateCollector(ctx context.Context, cycleID uint64, roundNumber int, collectorUserID uint64) error {
	for i := range r.rounds {
		if r.rounds[i].CycleID == cycleID && r.rounds[i].RoundNumber == roundNumber {
			r.rounds[i].CollectorUserID = collectorUserID
			return nil
		}
	}
	return nil
}

type fakePayments fakeStore

func (r *fakePayments) Create(ctx context.Context, payment *model.Payment) error {
	for _, p := range r.payments {
		if p.RoundID == payment.RoundID && p.UserID == payment.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	payment.ID = (*fakeStore)(r).id()
	if payment.PaidAt.IsZero() {
		payment.PaidAt = (*fakeStore)(r).tick()
	}
	r.payments = append(r.payments, *payment)
	return nil
}

func (r *fakePayments) GetByUserAndRound(ctx context.Context, userID, roundID uint64) (*model.Payment, error) {
	for i := range r.payments {
		if r.payments[i].UserID == userID && r.payments[i].RoundID == roundID {
			p := r.payments[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakePayments) ListByRound(ctx context.Context, roundID uint64, limit, offset int) ([]model.Payment, int64, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if p.RoundID == roundID {
			out = append(out, p)
		}
	}
	return paginate(out, limit, offset)
}

func (r *fakePayments) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Payment, int64, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return paginate(out, limit, offset)
}

func (r *fakePayments) ListByTontine(ctx context.Context, tontineID uint64) ([]model.Payment, error) {
	cycleIDs := map[uint64]bool{}
	for _, c := range r.cycles {
		if c.TontineID == tontineID {
			cycleIDs[c.ID] = true
		}
	}
	roundIDs := map[uint64]bool{}
	for _, rd := range r.rounds {
		if cycleIDs[rd.CycleID] {
			roundIDs[rd.ID] = true
		}
	}
	var out []model.Payment
	for _, p := range r.payments {
		if roundIDs[p.RoundID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func paginate(in []model.Payment, limit, offset int) ([]model.Payment, int64, error) {
	total := int64(len(in))
	if offset > len(in) {
		offset = len(in)
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in, total, nil
}
