package pocketbook

import "fmt"

// PriceSource supplies the current market price for a quote symbol. It
// returns ok=false when no price is available; the recompute pass then
// keeps the previous derived balance instead of failing the mutation.
type PriceSource interface {
	Price(symbol string) (float64, bool)
}

// PriceFunc adapts a function to the PriceSource interface.
type PriceFunc func(symbol string) (float64, bool)

func (f PriceFunc) Price(symbol string) (float64, bool) { return f(symbol) }

// NoPrices is a PriceSource that never knows a price: investment account
// balances keep their last derived value.
var NoPrices = PriceFunc(func(string) (float64, bool) { return 0, false })

// Engine is the balance-consistency orchestrator. It validates movements
// against the book, applies and reverses their effects on the correct
// leaf balance, manages the pending/applied state machine, and commits
// every mutation through the store.
//
// The engine is a client-local state machine: one mutation at a time,
// not safe for concurrent use against the same pockets without an
// external serialization point.
type Engine struct {
	book   *Book
	store  Store
	prices PriceSource
}

// NewEngine creates an engine over the given book, committing through
// store and deriving investment balances from prices. A nil prices is
// treated as NoPrices.
func NewEngine(book *Book, store Store, prices PriceSource) *Engine {
	if prices == nil {
		prices = NoPrices
	}
	return &Engine{book: book, store: store, prices: prices}
}

// Book returns the engine's underlying book.
func (e *Engine) Book() *Book { return e.book }

// CreateAccount validates and inserts an account, then commits it.
func (e *Engine) CreateAccount(a *Account) (*Account, error) {
	if err := e.book.AddAccount(a); err != nil {
		return nil, err
	}
	if err := e.store.InsertAccount(a); err != nil {
		return nil, fmt.Errorf("%w: inserting account %q: %v", ErrPersistence, a.Name, err)
	}
	return a, nil
}

// CreatePocket validates and inserts a pocket, then commits it.
func (e *Engine) CreatePocket(p *Pocket) (*Pocket, error) {
	if err := e.book.AddPocket(p); err != nil {
		return nil, err
	}
	if err := e.store.InsertPocket(p); err != nil {
		return nil, fmt.Errorf("%w: inserting pocket %q: %v", ErrPersistence, p.Name, err)
	}
	return p, nil
}

// CreateSubPocket validates and inserts a subpocket, then commits it.
func (e *Engine) CreateSubPocket(s *SubPocket) (*SubPocket, error) {
	if err := e.book.AddSubPocket(s); err != nil {
		return nil, err
	}
	if err := e.store.InsertSubPocket(s); err != nil {
		return nil, fmt.Errorf("%w: inserting subpocket %q: %v", ErrPersistence, s.Name, err)
	}
	return s, nil
}

// CreateMovement validates a movement, records it, and unless it is
// pending applies its effect exactly once to the correct leaf balance.
func (e *Engine) CreateMovement(m *Movement) (*Movement, error) {
	if err := m.Validate(e.book); err != nil {
		return nil, err
	}
	if m.ID.IsZero() {
		m.ID = NewID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now()
	}
	if err := e.book.AddMovement(m); err != nil {
		return nil, err
	}
	if !m.Pending {
		e.applyEffect(m, +1)
	}
	e.Recompute(m.AccountID)
	if err := e.store.InsertMovement(m); err != nil {
		return nil, fmt.Errorf("%w: inserting movement: %v", ErrPersistence, err)
	}
	if err := e.commitAccountState(m.AccountID); err != nil {
		return nil, err
	}
	return m, nil
}

// MovementPatch carries the fields of an UpdateMovement. Nil fields are
// left unchanged; the pending flag is not part of it, ApplyPending is
// the only way out of the pending state.
type MovementPatch struct {
	Type        *MovementType
	AccountID   *ID
	PocketID    *ID
	SubPocketID *ID
	Amount      *Money
	Notes       *string
	Date        *Date
}

func (p MovementPatch) merge(m Movement) Movement {
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.AccountID != nil {
		m.AccountID = *p.AccountID
	}
	if p.PocketID != nil {
		m.PocketID = *p.PocketID
	}
	if p.SubPocketID != nil {
		m.SubPocketID = *p.SubPocketID
	}
	if p.Amount != nil {
		m.Amount = *p.Amount
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
	}
	if p.Date != nil {
		m.Date = *p.Date
	}
	return m
}

// UpdateMovement replaces a movement's fields. The old effect is
// reversed from whichever ledger it was applied to, and the new effect
// is applied to whichever ledger the merged fields target, so a
// recompute afterwards is identical to having created the new movement
// directly. A successfully retargeted orphan is rescued.
func (e *Engine) UpdateMovement(id ID, patch MovementPatch) (*Movement, error) {
	old := e.book.Movement(id)
	if old == nil {
		return nil, fmt.Errorf("%w: movement %q", ErrNotFound, id)
	}

	merged := patch.merge(*old)
	// Validate the merged record before touching any balance, so a bad
	// patch leaves the book untouched.
	if err := merged.Validate(e.book); err != nil {
		return nil, err
	}
	merged.Orphaned = OrphanNone
	oldAccountID := old.AccountID

	if e.effectApplied(old) {
		e.applyEffect(old, -1)
	}
	if !merged.Pending {
		e.applyEffect(&merged, +1)
	}
	*old = merged

	e.Recompute(oldAccountID)
	if merged.AccountID != oldAccountID {
		e.Recompute(merged.AccountID)
	}
	if err := e.store.UpdateMovement(old); err != nil {
		return nil, fmt.Errorf("%w: updating movement: %v", ErrPersistence, err)
	}
	if merged.AccountID != oldAccountID {
		if err := e.commitAccountState(oldAccountID); err != nil {
			return nil, err
		}
	}
	if err := e.commitAccountState(merged.AccountID); err != nil {
		return nil, err
	}
	return old, nil
}

// DeleteMovement removes a movement record, reversing its effect if one
// was applied.
func (e *Engine) DeleteMovement(id ID) error {
	m := e.book.Movement(id)
	if m == nil {
		return fmt.Errorf("%w: movement %q", ErrNotFound, id)
	}
	if e.effectApplied(m) {
		e.applyEffect(m, -1)
	}
	if err := e.book.RemoveMovement(id); err != nil {
		return err
	}
	e.Recompute(m.AccountID)
	if err := e.store.DeleteMovement(id); err != nil {
		return fmt.Errorf("%w: deleting movement: %v", ErrPersistence, err)
	}
	return e.commitAccountState(m.AccountID)
}

// ApplyPending flips a pending movement to applied and applies its
// effect exactly as a non-pending create would have. The transition is
// one-directional: there is no way back to pending.
func (e *Engine) ApplyPending(id ID) (*Movement, error) {
	m := e.book.Movement(id)
	if m == nil {
		return nil, fmt.Errorf("%w: movement %q", ErrNotFound, id)
	}
	if !m.Pending {
		return nil, fmt.Errorf("%w: movement %q is already applied", ErrInvalidState, id)
	}
	if m.Orphaned != OrphanNone {
		return nil, fmt.Errorf("%w: movement %q is orphaned, its %s is gone", ErrInvalidState, id, m.Orphaned)
	}
	m.Pending = false
	e.applyEffect(m, +1)
	e.Recompute(m.AccountID)
	if err := e.store.UpdateMovement(m); err != nil {
		return nil, fmt.Errorf("%w: updating movement: %v", ErrPersistence, err)
	}
	if err := e.commitAccountState(m.AccountID); err != nil {
		return nil, err
	}
	return m, nil
}

// effectApplied reports whether the movement's effect is currently
// reflected in balances and must be reversed before replacement or
// deletion. Pending movements never applied; orphaned movements' leaf
// balances disappeared with their parents.
func (e *Engine) effectApplied(m *Movement) bool {
	return !m.Pending && m.Orphaned == OrphanNone
}

// applyEffect applies (sign=+1) or reverses (sign=-1) the movement's
// balance effect on the correct leaf: subpocket for fixed types, pocket
// for normal and investment types. A missing parent is an expected
// outcome of deletion ordering, not an error: the step is skipped.
func (e *Engine) applyEffect(m *Movement, sign int) {
	delta := m.Signed()
	if sign < 0 {
		delta = delta.Neg()
	}
	switch {
	case m.Type.IsFixed():
		sub := e.book.SubPocket(m.SubPocketID)
		if sub == nil {
			return
		}
		sub.Balance = sub.Balance.Add(delta)
	case m.Type.IsInvestment():
		pocket := e.book.Pocket(m.PocketID)
		if pocket == nil {
			return
		}
		pocket.Balance = pocket.Balance.Add(delta)
		e.resyncInvestment(e.book.Account(m.AccountID))
	default:
		pocket := e.book.Pocket(m.PocketID)
		if pocket == nil {
			return
		}
		pocket.Balance = pocket.Balance.Add(delta)
	}
}

// resyncInvestment refreshes the account's accumulated fields from its
// conventional pockets, so pockets stay authoritative.
func (e *Engine) resyncInvestment(a *Account) {
	if a == nil {
		return
	}
	if invested := e.book.FindPocket(a.ID, InvestedPocketName); invested != nil {
		a.Invested = invested.Balance
	}
	if shares := e.book.FindPocket(a.ID, SharesPocketName); shares != nil {
		a.Shares = shares.Balance.Quantity()
	}
}

// commitAccountState commits the account and all its pockets and
// subpockets after a balance mutation. A missing account (cascade in
// progress) commits nothing.
func (e *Engine) commitAccountState(accountID ID) error {
	account := e.book.Account(accountID)
	if account == nil {
		return nil
	}
	if err := e.store.UpdateAccount(account); err != nil {
		return fmt.Errorf("%w: updating account %q: %v", ErrPersistence, account.Name, err)
	}
	for pocket := range e.book.AccountPockets(accountID) {
		if err := e.store.UpdatePocket(pocket); err != nil {
			return fmt.Errorf("%w: updating pocket %q: %v", ErrPersistence, pocket.Name, err)
		}
		for sub := range e.book.PocketSubPockets(pocket.ID) {
			if err := e.store.UpdateSubPocket(sub); err != nil {
				return fmt.Errorf("%w: updating subpocket %q: %v", ErrPersistence, sub.Name, err)
			}
		}
	}
	return nil
}
