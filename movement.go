package pocketbook

import (
	"fmt"
	"time"
)

// MovementType is a typed string identifying the kind of balance change a
// movement records. The amount is always stored positive; the direction
// is implied by the type.
type MovementType string

const (
	IncomeNormal  MovementType = "income"
	ExpenseNormal MovementType = "expense"
	IncomeFixed   MovementType = "income-fixed"
	ExpenseFixed  MovementType = "expense-fixed"
	InvestDeposit MovementType = "invest-deposit"
	InvestShares  MovementType = "invest-shares"
)

// ParseMovementType parses a string into a MovementType.
func ParseMovementType(s string) (MovementType, error) {
	switch MovementType(s) {
	case IncomeNormal, ExpenseNormal, IncomeFixed, ExpenseFixed, InvestDeposit, InvestShares:
		return MovementType(s), nil
	default:
		return "", fmt.Errorf("unknown movement type %q", s)
	}
}

// Sign returns the direction of the balance effect: +1 for incomes and
// investment events, -1 for expenses.
func (t MovementType) Sign() int {
	switch t {
	case ExpenseNormal, ExpenseFixed:
		return -1
	default:
		return +1
	}
}

// IsFixed reports whether the type targets a recurring obligation and
// therefore requires a subpocket.
func (t MovementType) IsFixed() bool { return t == IncomeFixed || t == ExpenseFixed }

// IsInvestment reports whether the type records an investment event.
func (t MovementType) IsInvestment() bool { return t == InvestDeposit || t == InvestShares }

// now returns the ledger-order timestamp for a new movement. Second
// granularity, so the persisted form round-trips exactly.
func now() time.Time { return time.Now().UTC().Truncate(time.Second) }

// OrphanReason records which parent of an orphaned movement was removed.
type OrphanReason string

const (
	OrphanNone    OrphanReason = ""
	OrphanAccount OrphanReason = "account"
	OrphanPocket  OrphanReason = "pocket"
)

// Movement is an immutable-by-replacement record of a balance-affecting
// event. Its effect is reflected in ledger balances only while Pending
// is false and it is not orphaned.
type Movement struct {
	ID          ID
	Type        MovementType
	AccountID   ID
	PocketID    ID
	SubPocketID ID    // required for fixed types, forbidden otherwise
	Amount      Money // always positive, direction implied by Type
	Notes       string
	Date        Date      // user-meaningful date
	CreatedAt   time.Time // ledger-order timestamp
	Pending     bool
	Orphaned    OrphanReason
}

// NewMovement creates a movement record. The ID and the ledger-order
// timestamp are assigned here; the record carries no balance effect
// until the engine applies it.
func NewMovement(typ MovementType, accountID, pocketID ID, amount Money) *Movement {
	return &Movement{
		ID:        NewID(),
		Type:      typ,
		AccountID: accountID,
		PocketID:  pocketID,
		Amount:    amount,
		CreatedAt: now(),
	}
}

// Signed returns the amount with the direction implied by the type.
func (m *Movement) Signed() Money {
	if m.Type.Sign() < 0 {
		return m.Amount.Neg()
	}
	return m.Amount
}

// Equal reports whether two movements carry the same fields.
func (m *Movement) Equal(o *Movement) bool {
	return m.ID == o.ID && m.Type == o.Type &&
		m.AccountID == o.AccountID && m.PocketID == o.PocketID && m.SubPocketID == o.SubPocketID &&
		m.Amount.Equal(o.Amount) && m.Notes == o.Notes && m.Date == o.Date &&
		m.CreatedAt.Equal(o.CreatedAt) && m.Pending == o.Pending && m.Orphaned == o.Orphaned
}

// Validate checks the movement against the book's referential integrity
// rules and applies quick fixes: a zero date becomes today, a missing
// amount currency inherits the account's.
func (m *Movement) Validate(b *Book) error {
	if _, err := ParseMovementType(string(m.Type)); err != nil {
		return fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	if !m.Amount.IsPositive() {
		return fmt.Errorf("%w: movement amount must be positive, got %s", ErrInvalidAmount, m.Amount)
	}
	account := b.Account(m.AccountID)
	if account == nil {
		return fmt.Errorf("%w: account %q", ErrNotFound, m.AccountID)
	}
	pocket := b.Pocket(m.PocketID)
	if pocket == nil {
		return fmt.Errorf("%w: pocket %q", ErrNotFound, m.PocketID)
	}
	if pocket.AccountID != account.ID {
		return fmt.Errorf("%w: pocket %q does not belong to account %q", ErrIntegrity, pocket.Name, account.Name)
	}

	// Quick fix currency, then check.
	if m.Amount.Currency() == "" {
		m.Amount = M(m.Amount.value, account.Currency)
	} else if m.Amount.Currency() != account.Currency {
		return fmt.Errorf("%w: movement currency %s does not match account currency %s", ErrIntegrity, m.Amount.Currency(), account.Currency)
	}

	switch {
	case m.Type.IsFixed():
		if m.SubPocketID.IsZero() {
			return fmt.Errorf("%w: %s movement requires a subpocket", ErrIntegrity, m.Type)
		}
		sub := b.SubPocket(m.SubPocketID)
		if sub == nil {
			return fmt.Errorf("%w: subpocket %q", ErrNotFound, m.SubPocketID)
		}
		if sub.PocketID != pocket.ID {
			return fmt.Errorf("%w: subpocket %q does not belong to pocket %q", ErrIntegrity, sub.Name, pocket.Name)
		}
	case m.Type.IsInvestment():
		if !m.SubPocketID.IsZero() {
			return fmt.Errorf("%w: %s movement cannot target a subpocket", ErrIntegrity, m.Type)
		}
		if !account.IsInvestment() {
			return fmt.Errorf("%w: %s movement requires an investment account", ErrIntegrity, m.Type)
		}
	default:
		if !m.SubPocketID.IsZero() {
			return fmt.Errorf("%w: %s movement cannot target a subpocket", ErrIntegrity, m.Type)
		}
	}

	if m.Date.IsZero() {
		m.Date = Today()
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (m *Movement) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", kindMovement)
	w.Append("id", m.ID)
	w.Append("type", m.Type)
	w.Append("account", m.AccountID)
	w.Append("pocket", m.PocketID)
	w.Optional("subpocket", m.SubPocketID)
	w.EmbedFrom(m.Amount)
	w.Optional("notes", m.Notes)
	w.Append("date", m.Date)
	w.Append("createdAt", m.CreatedAt.Format(DatetimeFormat))
	w.Optional("pending", m.Pending)
	w.Optional("orphaned", m.Orphaned)
	return w.MarshalJSON()
}
