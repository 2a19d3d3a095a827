package pocketbook

import "fmt"

// SubPocket is a single recurring obligation inside a fixed pocket,
// tracked against a target amount amortized over a payoff period.
type SubPocket struct {
	ID       ID
	PocketID ID     // parent pocket, must be fixed
	Name     string // unique within the pocket

	Target       Money // total amount to be paid off
	PeriodMonths int   // number of months the target is amortized over

	// Balance is signed: negative means debt, above Target means
	// overpayment. It is the authoritative leaf balance of the book.
	Balance Money

	// Enabled subpockets count toward the monthly required contribution.
	Enabled bool
}

// NewSubPocket creates a subpocket under the given fixed pocket.
func NewSubPocket(pocketID ID, name string, target Money, periodMonths int) (*SubPocket, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: subpocket name is missing", ErrIntegrity)
	}
	if pocketID.IsZero() {
		return nil, fmt.Errorf("%w: subpocket %q has no pocket", ErrIntegrity, name)
	}
	if !target.IsPositive() {
		return nil, fmt.Errorf("%w: subpocket %q target must be positive, got %s", ErrInvalidAmount, name, target)
	}
	if periodMonths <= 0 {
		return nil, fmt.Errorf("%w: subpocket %q periodicity must be positive, got %d", ErrInvalidAmount, name, periodMonths)
	}
	return &SubPocket{
		ID:           NewID(),
		PocketID:     pocketID,
		Name:         name,
		Target:       target,
		PeriodMonths: periodMonths,
		Balance:      M(0, target.Currency()),
		Enabled:      true,
	}, nil
}

// Installment returns the plain monthly installment: target divided by
// the payoff period.
func (s *SubPocket) Installment() Money {
	return s.Target.Div(Q(s.PeriodMonths))
}

// Required returns the contribution required this month. A subpocket in
// debt must catch up the deficit plus the normal installment; one close
// to its target only needs the final partial installment. Disabled
// subpockets require nothing.
func (s *SubPocket) Required() Money {
	if !s.Enabled {
		return M(0, s.Target.Currency())
	}
	monthly := s.Installment()
	if s.Balance.IsNegative() {
		return monthly.Add(s.Balance.Neg())
	}
	remaining := s.Target.Sub(s.Balance)
	if remaining.LessThan(monthly) {
		return remaining
	}
	return monthly
}

// Progress returns the payoff progress as a percentage of the target.
// It is negative for a subpocket in debt and exceeds 100% on overpayment.
func (s *SubPocket) Progress() Percent {
	ratio := s.Balance.value.Div(s.Target.value)
	f, _ := ratio.Float64()
	return Percent(f * 100)
}

// MarshalJSON implements the json.Marshaler interface.
func (s *SubPocket) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", kindSubPocket)
	w.Append("id", s.ID)
	w.Append("pocket", s.PocketID)
	w.Append("name", s.Name)
	w.Append("target", s.Target.value)
	w.Append("months", s.PeriodMonths)
	w.Append("balance", s.Balance.value)
	w.Append("enabled", s.Enabled)
	return w.MarshalJSON()
}
