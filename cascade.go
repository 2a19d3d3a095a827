package pocketbook

import "fmt"

// CascadeCounts reports how many rows a cascade removed or orphaned, for
// caller reporting.
type CascadeCounts struct {
	Pockets    int
	SubPockets int
	Movements  int
}

// DeleteAccount removes an account and everything under it. By default
// movements referencing the account are marked orphaned before any child
// entity disappears, preserving history without double-reversing
// balances that are about to vanish anyway. With hardDeleteMovements the
// movement rows are removed instead; no reversal is needed since the
// pockets themselves are destroyed.
func (e *Engine) DeleteAccount(accountID ID, hardDeleteMovements bool) (CascadeCounts, error) {
	var counts CascadeCounts
	account := e.book.Account(accountID)
	if account == nil {
		return counts, fmt.Errorf("%w: account %q", ErrNotFound, accountID)
	}

	// Orphan first, while the hierarchy is still intact.
	if !hardDeleteMovements {
		for m := range e.book.Movements(ByAccount(accountID)) {
			if m.Orphaned != OrphanNone {
				continue
			}
			m.Orphaned = OrphanAccount
			if err := e.store.UpdateMovement(m); err != nil {
				return counts, fmt.Errorf("%w: orphaning movement: %v", ErrPersistence, err)
			}
			counts.Movements++
		}
	}

	var pockets []*Pocket
	for p := range e.book.AccountPockets(accountID) {
		pockets = append(pockets, p)
	}
	for _, pocket := range pockets {
		var subs []*SubPocket
		for s := range e.book.PocketSubPockets(pocket.ID) {
			subs = append(subs, s)
		}
		for _, sub := range subs {
			if err := e.book.RemoveSubPocket(sub.ID); err != nil {
				return counts, err
			}
			if err := e.store.DeleteSubPocket(sub.ID); err != nil {
				return counts, fmt.Errorf("%w: deleting subpocket %q: %v", ErrPersistence, sub.Name, err)
			}
			counts.SubPockets++
		}
		if hardDeleteMovements {
			for m := range e.book.Movements(ByPocket(pocket.ID)) {
				if err := e.book.RemoveMovement(m.ID); err != nil {
					return counts, err
				}
				if err := e.store.DeleteMovement(m.ID); err != nil {
					return counts, fmt.Errorf("%w: deleting movement: %v", ErrPersistence, err)
				}
				counts.Movements++
			}
		}
		if err := e.book.RemovePocket(pocket.ID); err != nil {
			return counts, err
		}
		if err := e.store.DeletePocket(pocket.ID); err != nil {
			return counts, fmt.Errorf("%w: deleting pocket %q: %v", ErrPersistence, pocket.Name, err)
		}
		counts.Pockets++
	}

	if hardDeleteMovements {
		// Sweep movements that kept referencing the account through an
		// already-removed pocket (earlier orphans).
		for m := range e.book.Movements(ByAccount(accountID)) {
			if err := e.book.RemoveMovement(m.ID); err != nil {
				return counts, err
			}
			if err := e.store.DeleteMovement(m.ID); err != nil {
				return counts, fmt.Errorf("%w: deleting movement: %v", ErrPersistence, err)
			}
			counts.Movements++
		}
	}

	if err := e.book.RemoveAccount(accountID); err != nil {
		return counts, err
	}
	if err := e.store.DeleteAccount(accountID); err != nil {
		return counts, fmt.Errorf("%w: deleting account %q: %v", ErrPersistence, account.Name, err)
	}
	return counts, nil
}

// DeletePocket removes a single pocket. A fixed pocket with remaining
// subpockets is refused: the caller must delete the subpockets first.
// Movements referencing the pocket are marked orphaned, and the parent
// account balance is recomputed.
func (e *Engine) DeletePocket(pocketID ID) error {
	pocket := e.book.Pocket(pocketID)
	if pocket == nil {
		return fmt.Errorf("%w: pocket %q", ErrNotFound, pocketID)
	}
	if pocket.IsFixed() {
		for range e.book.PocketSubPockets(pocketID) {
			return fmt.Errorf("%w: pocket %q still has subpockets", ErrIntegrity, pocket.Name)
		}
	}

	for m := range e.book.Movements(ByPocket(pocketID)) {
		if m.Orphaned != OrphanNone {
			continue
		}
		m.Orphaned = OrphanPocket
		if err := e.store.UpdateMovement(m); err != nil {
			return fmt.Errorf("%w: orphaning movement: %v", ErrPersistence, err)
		}
	}

	if err := e.book.RemovePocket(pocketID); err != nil {
		return err
	}
	e.Recompute(pocket.AccountID)
	if err := e.store.DeletePocket(pocketID); err != nil {
		return fmt.Errorf("%w: deleting pocket %q: %v", ErrPersistence, pocket.Name, err)
	}
	return e.commitAccountState(pocket.AccountID)
}

// DeleteSubPocket removes a single subpocket, orphan-marking is not
// needed since its movements still reference a live pocket: they are
// marked orphaned with the pocket reason only when the parent pocket
// goes away. Movements targeting the subpocket directly are orphaned
// here with the pocket reason, their leaf balance is gone.
func (e *Engine) DeleteSubPocket(subPocketID ID) error {
	sub := e.book.SubPocket(subPocketID)
	if sub == nil {
		return fmt.Errorf("%w: subpocket %q", ErrNotFound, subPocketID)
	}
	pocket := e.book.Pocket(sub.PocketID)

	for m := range e.book.Movements() {
		if m.SubPocketID != subPocketID || m.Orphaned != OrphanNone {
			continue
		}
		m.Orphaned = OrphanPocket
		if err := e.store.UpdateMovement(m); err != nil {
			return fmt.Errorf("%w: orphaning movement: %v", ErrPersistence, err)
		}
	}

	if err := e.book.RemoveSubPocket(subPocketID); err != nil {
		return err
	}
	if err := e.store.DeleteSubPocket(subPocketID); err != nil {
		return fmt.Errorf("%w: deleting subpocket %q: %v", ErrPersistence, sub.Name, err)
	}
	if pocket != nil {
		e.Recompute(pocket.AccountID)
		return e.commitAccountState(pocket.AccountID)
	}
	return nil
}
