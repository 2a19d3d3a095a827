package pocketbook

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Book is the in-memory authoritative state of a pocket ledger: all
// accounts, pockets, subpockets and movements of a single user.
//
// The book enforces structural invariants (uniqueness, parent types) on
// insertion; balance consistency is the Engine's job.
type Book struct {
	accounts   map[ID]*Account
	pockets    map[ID]*Pocket
	subpockets map[ID]*SubPocket
	movements  map[ID]*Movement
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{
		accounts:   make(map[ID]*Account),
		pockets:    make(map[ID]*Pocket),
		subpockets: make(map[ID]*SubPocket),
		movements:  make(map[ID]*Movement),
	}
}

// Account returns the account with this ID, or nil if unknown.
func (b *Book) Account(id ID) *Account { return b.accounts[id] }

// Pocket returns the pocket with this ID, or nil if unknown.
func (b *Book) Pocket(id ID) *Pocket { return b.pockets[id] }

// SubPocket returns the subpocket with this ID, or nil if unknown.
func (b *Book) SubPocket(id ID) *SubPocket { return b.subpockets[id] }

// Movement returns the movement with this ID, or nil if unknown.
func (b *Book) Movement(id ID) *Movement { return b.movements[id] }

// FindAccount returns the account with this name, or nil if unknown.
func (b *Book) FindAccount(name string) *Account {
	for _, a := range b.accounts {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// FindPocket returns the pocket with this name under the given account,
// or nil if unknown.
func (b *Book) FindPocket(accountID ID, name string) *Pocket {
	for _, p := range b.pockets {
		if p.AccountID == accountID && p.Name == name {
			return p
		}
	}
	return nil
}

// FindSubPocket returns the subpocket with this name under the given
// pocket, or nil if unknown.
func (b *Book) FindSubPocket(pocketID ID, name string) *SubPocket {
	for _, s := range b.subpockets {
		if s.PocketID == pocketID && s.Name == name {
			return s
		}
	}
	return nil
}

// FixedPocket returns the book's single fixed pocket, or nil if none
// has been created yet.
func (b *Book) FixedPocket() *Pocket {
	for _, p := range b.pockets {
		if p.IsFixed() {
			return p
		}
	}
	return nil
}

// AddAccount inserts an account. Two accounts may not share the same
// (name, currency) pair.
func (b *Book) AddAccount(a *Account) error {
	if a.ID.IsZero() {
		a.ID = NewID()
	}
	if _, exists := b.accounts[a.ID]; exists {
		return fmt.Errorf("%w: account %q already exists", ErrIntegrity, a.ID)
	}
	for _, other := range b.accounts {
		if other.Name == a.Name && other.Currency == a.Currency {
			return fmt.Errorf("%w: account %q (%s) already exists", ErrIntegrity, a.Name, a.Currency)
		}
	}
	b.accounts[a.ID] = a
	return nil
}

// AddPocket inserts a pocket. The parent account must exist, the name
// must be unique within it, at most one fixed pocket may exist in the
// whole book, and investment accounts may not own fixed pockets.
func (b *Book) AddPocket(p *Pocket) error {
	account := b.Account(p.AccountID)
	if account == nil {
		return fmt.Errorf("%w: account %q", ErrNotFound, p.AccountID)
	}
	if p.ID.IsZero() {
		p.ID = NewID()
	}
	if _, exists := b.pockets[p.ID]; exists {
		return fmt.Errorf("%w: pocket %q already exists", ErrIntegrity, p.ID)
	}
	if b.FindPocket(p.AccountID, p.Name) != nil {
		return fmt.Errorf("%w: pocket %q already exists in account %q", ErrIntegrity, p.Name, account.Name)
	}
	if p.IsFixed() {
		if account.IsInvestment() {
			return fmt.Errorf("%w: investment account %q cannot own a fixed pocket", ErrIntegrity, account.Name)
		}
		if fixed := b.FixedPocket(); fixed != nil {
			return fmt.Errorf("%w: fixed pocket %q already exists", ErrIntegrity, fixed.Name)
		}
	}
	// Pockets inherit the account currency.
	p.Balance = M(p.Balance.value, account.Currency)
	b.pockets[p.ID] = p
	return nil
}

// AddSubPocket inserts a subpocket. The parent pocket must exist and be
// fixed, and the name must be unique within it.
func (b *Book) AddSubPocket(s *SubPocket) error {
	pocket := b.Pocket(s.PocketID)
	if pocket == nil {
		return fmt.Errorf("%w: pocket %q", ErrNotFound, s.PocketID)
	}
	if !pocket.IsFixed() {
		return fmt.Errorf("%w: pocket %q is not fixed, cannot hold subpockets", ErrIntegrity, pocket.Name)
	}
	if s.ID.IsZero() {
		s.ID = NewID()
	}
	if _, exists := b.subpockets[s.ID]; exists {
		return fmt.Errorf("%w: subpocket %q already exists", ErrIntegrity, s.ID)
	}
	if b.FindSubPocket(s.PocketID, s.Name) != nil {
		return fmt.Errorf("%w: subpocket %q already exists in pocket %q", ErrIntegrity, s.Name, pocket.Name)
	}
	cur := pocket.Balance.Currency()
	s.Target = M(s.Target.value, cur)
	s.Balance = M(s.Balance.value, cur)
	b.subpockets[s.ID] = s
	return nil
}

// AddMovement inserts a movement record. Referential integrity is the
// Engine's responsibility; the book only refuses duplicate IDs.
func (b *Book) AddMovement(m *Movement) error {
	if m.ID.IsZero() {
		m.ID = NewID()
	}
	if _, exists := b.movements[m.ID]; exists {
		return fmt.Errorf("%w: movement %q already exists", ErrIntegrity, m.ID)
	}
	b.movements[m.ID] = m
	return nil
}

// RemoveAccount removes an account. It refuses while the account still
// owns pockets; cascading is the Engine's job.
func (b *Book) RemoveAccount(id ID) error {
	if b.Account(id) == nil {
		return fmt.Errorf("%w: account %q", ErrNotFound, id)
	}
	for _, p := range b.pockets {
		if p.AccountID == id {
			return fmt.Errorf("%w: account %q still owns pocket %q", ErrIntegrity, id, p.Name)
		}
	}
	delete(b.accounts, id)
	return nil
}

// RemovePocket removes a pocket. It refuses while the pocket still owns
// subpockets.
func (b *Book) RemovePocket(id ID) error {
	if b.Pocket(id) == nil {
		return fmt.Errorf("%w: pocket %q", ErrNotFound, id)
	}
	for _, s := range b.subpockets {
		if s.PocketID == id {
			return fmt.Errorf("%w: pocket %q still owns subpocket %q", ErrIntegrity, id, s.Name)
		}
	}
	delete(b.pockets, id)
	return nil
}

// RemoveSubPocket removes a subpocket.
func (b *Book) RemoveSubPocket(id ID) error {
	if b.SubPocket(id) == nil {
		return fmt.Errorf("%w: subpocket %q", ErrNotFound, id)
	}
	delete(b.subpockets, id)
	return nil
}

// RemoveMovement removes a movement record.
func (b *Book) RemoveMovement(id ID) error {
	if b.Movement(id) == nil {
		return fmt.Errorf("%w: movement %q", ErrNotFound, id)
	}
	delete(b.movements, id)
	return nil
}

// Accounts iterates over all accounts sorted by name then currency.
func (b *Book) Accounts() iter.Seq[*Account] {
	return func(yield func(*Account) bool) {
		accounts := slices.Collect(maps.Values(b.accounts))
		slices.SortFunc(accounts, func(x, y *Account) int {
			if c := strings.Compare(x.Name, y.Name); c != 0 {
				return c
			}
			return strings.Compare(x.Currency, y.Currency)
		})
		for _, a := range accounts {
			if !yield(a) {
				return
			}
		}
	}
}

// AccountPockets iterates over the pockets of an account sorted by name.
func (b *Book) AccountPockets(accountID ID) iter.Seq[*Pocket] {
	return func(yield func(*Pocket) bool) {
		var pockets []*Pocket
		for _, p := range b.pockets {
			if p.AccountID == accountID {
				pockets = append(pockets, p)
			}
		}
		slices.SortFunc(pockets, func(x, y *Pocket) int { return strings.Compare(x.Name, y.Name) })
		for _, p := range pockets {
			if !yield(p) {
				return
			}
		}
	}
}

// PocketSubPockets iterates over the subpockets of a pocket sorted by name.
func (b *Book) PocketSubPockets(pocketID ID) iter.Seq[*SubPocket] {
	return func(yield func(*SubPocket) bool) {
		var subs []*SubPocket
		for _, s := range b.subpockets {
			if s.PocketID == pocketID {
				subs = append(subs, s)
			}
		}
		slices.SortFunc(subs, func(x, y *SubPocket) int { return strings.Compare(x.Name, y.Name) })
		for _, s := range subs {
			if !yield(s) {
				return
			}
		}
	}
}

// Movements iterates over all movements in ledger order (creation
// timestamp, then ID for same-instant records). A movement is yielded
// only when it satisfies every given filter.
func (b *Book) Movements(filters ...func(*Movement) bool) iter.Seq[*Movement] {
	return func(yield func(*Movement) bool) {
		movements := slices.Collect(maps.Values(b.movements))
		slices.SortFunc(movements, func(x, y *Movement) int {
			if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
				return c
			}
			return strings.Compare(string(x.ID), string(y.ID))
		})
		for _, m := range movements {
			accept := true
			for _, filter := range filters {
				if !filter(m) {
					accept = false
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}

// ByAccount returns a predicate that filters movements by account.
func ByAccount(accountID ID) func(*Movement) bool {
	return func(m *Movement) bool { return m.AccountID == accountID }
}

// ByPocket returns a predicate that filters movements by pocket.
func ByPocket(pocketID ID) func(*Movement) bool {
	return func(m *Movement) bool { return m.PocketID == pocketID }
}

// Active returns a predicate that keeps only movements currently
// reflected in balances: applied and not orphaned.
func Active() func(*Movement) bool {
	return func(m *Movement) bool { return !m.Pending && m.Orphaned == OrphanNone }
}
