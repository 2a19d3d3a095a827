package pocketbook

import "fmt"

// AccountType is a typed string discriminating normal and investment accounts.
type AccountType string

const (
	// AccountNormal holds free money; its balance is derived as the sum
	// of its pockets' balances.
	AccountNormal AccountType = "normal"
	// AccountInvestment tracks a position in a quoted asset; its balance
	// is derived from its share count and the current market price,
	// while invested amount and share count are accumulated from
	// investment movements.
	AccountInvestment AccountType = "investment"
)

// ParseAccountType parses a string into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountNormal, AccountInvestment:
		return AccountType(s), nil
	default:
		return "", fmt.Errorf("unknown account type %q", s)
	}
}

// Names of the two conventional pockets of an investment account. The
// engine resynchronizes the account's accumulated fields from them after
// every investment movement, so pockets stay authoritative.
const (
	InvestedPocketName = "Invested Money"
	SharesPocketName   = "Shares"
)

// Account is a top-level money container in a single currency.
type Account struct {
	ID       ID
	Name     string
	Color    string // display color tag, optional
	Currency string
	Type     AccountType

	// Balance is derived, never authoritative: sum of pocket balances
	// for normal accounts, shares times market price for investment
	// accounts. It is recomputed after every mutation and on load.
	Balance Money

	// Investment accounts only. Accumulated from movements, not derived.
	Symbol   string   // quote symbol for the market price lookup
	Invested Money    // total amount deposited
	Shares   Quantity // share count
}

// NewAccount creates a normal account.
func NewAccount(name, color, currency string) (*Account, error) {
	return newAccount(name, color, currency, AccountNormal, "")
}

// NewInvestmentAccount creates an investment account tracking the given
// quote symbol.
func NewInvestmentAccount(name, color, currency, symbol string) (*Account, error) {
	return newAccount(name, color, currency, AccountInvestment, symbol)
}

func newAccount(name, color, currency string, typ AccountType, symbol string) (*Account, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: account name is missing", ErrIntegrity)
	}
	if err := ValidateCurrency(currency); err != nil {
		return nil, fmt.Errorf("invalid currency for account %q: %w", name, err)
	}
	return &Account{
		ID:       NewID(),
		Name:     name,
		Color:    color,
		Currency: currency,
		Type:     typ,
		Balance:  M(0, currency),
		Invested: M(0, currency),
		Symbol:   symbol,
	}, nil
}

// IsInvestment reports whether the account tracks an investment position.
func (a *Account) IsInvestment() bool { return a.Type == AccountInvestment }

// MarshalJSON implements the json.Marshaler interface. The derived
// balance is not persisted; invested amount and share count are.
func (a *Account) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", kindAccount)
	w.Append("id", a.ID)
	w.Append("name", a.Name)
	w.Optional("color", a.Color)
	w.Append("currency", a.Currency)
	w.Append("type", a.Type)
	if a.IsInvestment() {
		w.Optional("symbol", a.Symbol)
		w.Append("invested", a.Invested.value)
		w.Append("shares", a.Shares)
	}
	return w.MarshalJSON()
}
