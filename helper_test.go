package pocketbook

import "testing"

// EUR is a helper for tests to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for tests to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// fixture is a small pre-populated book wired to an engine and a memory
// store: one normal account with a free pocket and a fixed pocket
// holding two subpockets, plus one investment account with its two
// conventional pockets.
type fixture struct {
	engine *Engine
	store  *MemoryStore
	book   *Book

	checking *Account
	daily    *Pocket
	bills    *Pocket
	rent     *SubPocket
	phone    *SubPocket

	broker   *Account
	invested *Pocket
	shares   *Pocket
}

// staticPrices is a PriceSource for tests backed by a map.
type staticPrices map[string]float64

func (p staticPrices) Price(symbol string) (float64, bool) {
	v, ok := p[symbol]
	return v, ok
}

func newFixture(t *testing.T, prices PriceSource) *fixture {
	t.Helper()
	book := NewBook()
	store := NewMemoryStore()
	engine := NewEngine(book, store, prices)

	f := &fixture{engine: engine, store: store, book: book}

	var err error
	account, err := NewAccount("Checking", "blue", "EUR")
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	if f.checking, err = engine.CreateAccount(account); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	pocket, err := NewPocket(f.checking.ID, "Daily", PocketNormal)
	if err != nil {
		t.Fatalf("NewPocket: %v", err)
	}
	if f.daily, err = engine.CreatePocket(pocket); err != nil {
		t.Fatalf("CreatePocket: %v", err)
	}

	fixed, err := NewPocket(f.checking.ID, "Bills", PocketFixed)
	if err != nil {
		t.Fatalf("NewPocket: %v", err)
	}
	if f.bills, err = engine.CreatePocket(fixed); err != nil {
		t.Fatalf("CreatePocket: %v", err)
	}

	rent, err := NewSubPocket(f.bills.ID, "Rent", EUR(1200), 12)
	if err != nil {
		t.Fatalf("NewSubPocket: %v", err)
	}
	if f.rent, err = engine.CreateSubPocket(rent); err != nil {
		t.Fatalf("CreateSubPocket: %v", err)
	}

	phone, err := NewSubPocket(f.bills.ID, "Phone", EUR(240), 12)
	if err != nil {
		t.Fatalf("NewSubPocket: %v", err)
	}
	if f.phone, err = engine.CreateSubPocket(phone); err != nil {
		t.Fatalf("CreateSubPocket: %v", err)
	}

	broker, err := NewInvestmentAccount("Broker", "green", "EUR", "WLD")
	if err != nil {
		t.Fatalf("NewInvestmentAccount: %v", err)
	}
	if f.broker, err = engine.CreateAccount(broker); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	invested, err := NewPocket(f.broker.ID, InvestedPocketName, PocketNormal)
	if err != nil {
		t.Fatalf("NewPocket: %v", err)
	}
	if f.invested, err = engine.CreatePocket(invested); err != nil {
		t.Fatalf("CreatePocket: %v", err)
	}

	sharesPocket, err := NewPocket(f.broker.ID, SharesPocketName, PocketNormal)
	if err != nil {
		t.Fatalf("NewPocket: %v", err)
	}
	if f.shares, err = engine.CreatePocket(sharesPocket); err != nil {
		t.Fatalf("CreatePocket: %v", err)
	}

	return f
}

// income records a non-pending direct income on a normal pocket.
func (f *fixture) income(t *testing.T, pocket *Pocket, amount Money) *Movement {
	t.Helper()
	m, err := f.engine.CreateMovement(NewMovement(IncomeNormal, pocket.AccountID, pocket.ID, amount))
	if err != nil {
		t.Fatalf("CreateMovement(income): %v", err)
	}
	return m
}

// expense records a non-pending direct expense on a normal pocket.
func (f *fixture) expense(t *testing.T, pocket *Pocket, amount Money) *Movement {
	t.Helper()
	m, err := f.engine.CreateMovement(NewMovement(ExpenseNormal, pocket.AccountID, pocket.ID, amount))
	if err != nil {
		t.Fatalf("CreateMovement(expense): %v", err)
	}
	return m
}

// contribute records a fixed contribution (or charge) on a subpocket.
func (f *fixture) contribute(t *testing.T, typ MovementType, sub *SubPocket, amount Money) *Movement {
	t.Helper()
	pocket := f.book.Pocket(sub.PocketID)
	movement := NewMovement(typ, pocket.AccountID, pocket.ID, amount)
	movement.SubPocketID = sub.ID
	m, err := f.engine.CreateMovement(movement)
	if err != nil {
		t.Fatalf("CreateMovement(%s): %v", typ, err)
	}
	return m
}

// invest records a deposit (cash in) or a share purchase on the broker
// account. For share purchases the amount carries the share count.
func (f *fixture) invest(t *testing.T, typ MovementType, amount Money) *Movement {
	t.Helper()
	pocket := f.invested
	if typ == InvestShares {
		pocket = f.shares
	}
	m, err := f.engine.CreateMovement(NewMovement(typ, f.broker.ID, pocket.ID, amount))
	if err != nil {
		t.Fatalf("CreateMovement(%s): %v", typ, err)
	}
	return m
}

// assertBalance fails the test when the entity's balance differs.
func assertBalance(t *testing.T, name string, got, want Money) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s balance = %s, want %s", name, got, want)
	}
}
