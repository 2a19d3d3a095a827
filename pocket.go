package pocketbook

import "fmt"

// PocketType is a typed string discriminating normal and fixed pockets.
type PocketType string

const (
	// PocketNormal accumulates the signed sum of applied movements
	// referencing it directly.
	PocketNormal PocketType = "normal"
	// PocketFixed aggregates recurring obligations; its balance is
	// derived as the sum of its subpockets' balances. At most one fixed
	// pocket exists in a book.
	PocketFixed PocketType = "fixed"
)

// ParsePocketType parses a string into a PocketType.
func ParsePocketType(s string) (PocketType, error) {
	switch PocketType(s) {
	case PocketNormal, PocketFixed:
		return PocketType(s), nil
	default:
		return "", fmt.Errorf("unknown pocket type %q", s)
	}
}

// Pocket is a named subdivision of an Account. Its currency is inherited
// from the account.
type Pocket struct {
	ID        ID
	AccountID ID
	Name      string // unique within the account
	Type      PocketType

	// Balance is authoritative for normal pockets (accumulated from
	// applied movements) and derived for fixed pockets (sum of
	// subpocket balances).
	Balance Money
}

// NewPocket creates a pocket under the given account.
func NewPocket(accountID ID, name string, typ PocketType) (*Pocket, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: pocket name is missing", ErrIntegrity)
	}
	if accountID.IsZero() {
		return nil, fmt.Errorf("%w: pocket %q has no account", ErrIntegrity, name)
	}
	return &Pocket{ID: NewID(), AccountID: accountID, Name: name, Type: typ}, nil
}

// IsFixed reports whether the pocket aggregates recurring obligations.
func (p *Pocket) IsFixed() bool { return p.Type == PocketFixed }

// MarshalJSON implements the json.Marshaler interface. A fixed pocket's
// balance is derived and therefore not persisted.
func (p *Pocket) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", kindPocket)
	w.Append("id", p.ID)
	w.Append("account", p.AccountID)
	w.Append("name", p.Name)
	w.Append("type", p.Type)
	if !p.IsFixed() {
		w.Append("balance", p.Balance.value)
	}
	return w.MarshalJSON()
}
