package pocketbook

import (
	"errors"
	"testing"
)

func TestBook_AccountUniqueness(t *testing.T) {
	f := newFixture(t, nil)

	// Same (name, currency) pair is refused.
	dup, _ := NewAccount("Checking", "", "EUR")
	if _, err := f.engine.CreateAccount(dup); !errors.Is(err, ErrIntegrity) {
		t.Errorf("duplicate account: got %v, want ErrIntegrity", err)
	}

	// Same name in another currency is a different account.
	other, _ := NewAccount("Checking", "", "USD")
	if _, err := f.engine.CreateAccount(other); err != nil {
		t.Errorf("same name other currency: %v", err)
	}
}

func TestBook_PocketUniqueness(t *testing.T) {
	f := newFixture(t, nil)

	dup, _ := NewPocket(f.checking.ID, "Daily", PocketNormal)
	if _, err := f.engine.CreatePocket(dup); !errors.Is(err, ErrIntegrity) {
		t.Errorf("duplicate pocket name: got %v, want ErrIntegrity", err)
	}

	// A second fixed pocket anywhere in the book is refused.
	second, _ := NewPocket(f.checking.ID, "More Bills", PocketFixed)
	if _, err := f.engine.CreatePocket(second); !errors.Is(err, ErrIntegrity) {
		t.Errorf("second fixed pocket: got %v, want ErrIntegrity", err)
	}

	orphanPocket, _ := NewPocket(NewID(), "Nowhere", PocketNormal)
	if _, err := f.engine.CreatePocket(orphanPocket); !errors.Is(err, ErrNotFound) {
		t.Errorf("pocket without account: got %v, want ErrNotFound", err)
	}
}

func TestBook_InvestmentCannotOwnFixedPocket(t *testing.T) {
	book := NewBook()
	broker, _ := NewInvestmentAccount("Broker", "", "EUR", "WLD")
	if err := book.AddAccount(broker); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	fixed, _ := NewPocket(broker.ID, "Bills", PocketFixed)
	if err := book.AddPocket(fixed); !errors.Is(err, ErrIntegrity) {
		t.Errorf("fixed pocket on investment account: got %v, want ErrIntegrity", err)
	}
}

func TestBook_SubPocketParentMustBeFixed(t *testing.T) {
	f := newFixture(t, nil)

	sub, _ := NewSubPocket(f.daily.ID, "Rent", EUR(100), 10)
	if _, err := f.engine.CreateSubPocket(sub); !errors.Is(err, ErrIntegrity) {
		t.Errorf("subpocket under normal pocket: got %v, want ErrIntegrity", err)
	}

	dup, _ := NewSubPocket(f.bills.ID, "Rent", EUR(100), 10)
	if _, err := f.engine.CreateSubPocket(dup); !errors.Is(err, ErrIntegrity) {
		t.Errorf("duplicate subpocket name: got %v, want ErrIntegrity", err)
	}
}

func TestBook_RemoveAccountRefusesWithPockets(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.book.RemoveAccount(f.checking.ID); !errors.Is(err, ErrIntegrity) {
		t.Errorf("got %v, want ErrIntegrity", err)
	}
}

func TestBook_PocketInheritsAccountCurrency(t *testing.T) {
	f := newFixture(t, nil)
	if got := f.daily.Balance.Currency(); got != "EUR" {
		t.Errorf("pocket currency = %q, want EUR", got)
	}
	if got := f.rent.Target.Currency(); got != "EUR" {
		t.Errorf("subpocket target currency = %q, want EUR", got)
	}
}

func TestBook_Iterators(t *testing.T) {
	f := newFixture(t, nil)

	var names []string
	for a := range f.book.Accounts() {
		names = append(names, a.Name)
	}
	if len(names) != 2 || names[0] != "Broker" || names[1] != "Checking" {
		t.Errorf("accounts = %v, want sorted [Broker Checking]", names)
	}

	var pockets []string
	for p := range f.book.AccountPockets(f.checking.ID) {
		pockets = append(pockets, p.Name)
	}
	if len(pockets) != 2 || pockets[0] != "Bills" || pockets[1] != "Daily" {
		t.Errorf("pockets = %v, want sorted [Bills Daily]", pockets)
	}

	f.income(t, f.daily, EUR(1))
	pending := NewMovement(IncomeNormal, f.checking.ID, f.daily.ID, EUR(2))
	pending.Pending = true
	if _, err := f.engine.CreateMovement(pending); err != nil {
		t.Fatalf("CreateMovement: %v", err)
	}

	active := 0
	for range f.book.Movements(Active()) {
		active++
	}
	if active != 1 {
		t.Errorf("active movements = %d, want 1", active)
	}
	all := 0
	for range f.book.Movements() {
		all++
	}
	if all != 2 {
		t.Errorf("all movements = %d, want 2", all)
	}
}

func TestBook_MovementFiltersIntersect(t *testing.T) {
	f := newFixture(t, staticPrices{"WLD": 100})

	f.income(t, f.daily, EUR(10))
	f.invest(t, InvestDeposit, EUR(500))
	pending := NewMovement(InvestDeposit, f.broker.ID, f.invested.ID, EUR(2))
	pending.Pending = true
	if _, err := f.engine.CreateMovement(pending); err != nil {
		t.Fatalf("CreateMovement: %v", err)
	}

	// All filters must hold at once: the checking income and the
	// pending broker deposit are both excluded.
	got := 0
	for m := range f.book.Movements(Active(), ByAccount(f.broker.ID)) {
		if m.AccountID != f.broker.ID {
			t.Errorf("movement %s targets account %s, want %s", m.ID, m.AccountID, f.broker.ID)
		}
		got++
	}
	if got != 1 {
		t.Errorf("active broker movements = %d, want 1", got)
	}

	none := 0
	for range f.book.Movements(ByAccount(f.checking.ID), ByPocket(f.invested.ID)) {
		none++
	}
	if none != 0 {
		t.Errorf("cross-account filter yielded %d movements, want 0", none)
	}
}
