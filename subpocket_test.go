package pocketbook

import (
	"errors"
	"testing"
)

func TestSubPocket_DebtAndOverpayment(t *testing.T) {
	f := newFixture(t, nil)

	// An early charge puts the obligation in debt.
	f.contribute(t, ExpenseFixed, f.rent, EUR(500))
	assertBalance(t, "rent", f.rent.Balance, EUR(-500))
	if !f.rent.Progress().Equal(Percent(-41.6667)) {
		t.Errorf("progress = %s, want -41.67%%", f.rent.Progress())
	}
	// Catch up the deficit plus the normal installment.
	assertBalance(t, "required in debt", f.rent.Required(), EUR(600))

	// A large contribution brings it near the target.
	f.contribute(t, IncomeFixed, f.rent, EUR(1500))
	assertBalance(t, "rent", f.rent.Balance, EUR(1000))
	if !f.rent.Progress().Equal(Percent(83.3333)) {
		t.Errorf("progress = %s, want 83.33%%", f.rent.Progress())
	}
	// Final partial installment: only 200 remain out of a 100 monthly…
	// remaining (200) is not below monthly (100), so a full installment.
	assertBalance(t, "required near target", f.rent.Required(), EUR(100))

	// Overpayment is allowed and progress exceeds 100%.
	f.contribute(t, IncomeFixed, f.rent, EUR(12000))
	assertBalance(t, "rent", f.rent.Balance, EUR(13000))
	if !f.rent.Progress().Equal(Percent(1083.3333)) {
		t.Errorf("progress = %s, want 1083.33%%", f.rent.Progress())
	}
	// Negative remaining is below monthly: the remaining is due, i.e.
	// nothing more than the (negative) difference, so callers clamp.
	if f.rent.Required().IsPositive() {
		t.Errorf("required after overpayment = %s, want non-positive", f.rent.Required())
	}

	// Fixed pocket and account aggregate the subpocket balances.
	assertBalance(t, "bills", f.bills.Balance, EUR(13000))
	assertBalance(t, "checking", f.checking.Balance, EUR(13000))
}

func TestSubPocket_Required(t *testing.T) {
	cases := []struct {
		name    string
		target  float64
		months  int
		balance float64
		enabled bool
		want    float64
	}{
		{"fresh", 1200, 12, 0, true, 100},
		{"halfway", 1200, 12, 600, true, 100},
		{"final partial installment", 1200, 12, 1150, true, 50},
		{"complete", 1200, 12, 1200, true, 0},
		{"in debt", 1200, 12, -500, true, 600},
		{"disabled", 1200, 12, -500, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &SubPocket{
				Name:         "Rent",
				Target:       EUR(tc.target),
				PeriodMonths: tc.months,
				Balance:      EUR(tc.balance),
				Enabled:      tc.enabled,
			}
			if got := s.Required(); !got.Equal(EUR(tc.want)) {
				t.Errorf("Required() = %s, want %s", got, EUR(tc.want))
			}
		})
	}
}

func TestSubPocket_Installment(t *testing.T) {
	s := &SubPocket{Target: EUR(240), PeriodMonths: 12}
	if got := s.Installment(); !got.Equal(EUR(20)) {
		t.Errorf("Installment() = %s, want %s", got, EUR(20))
	}
}

func TestNewSubPocket_Validation(t *testing.T) {
	if _, err := NewSubPocket(NewID(), "Rent", EUR(0), 12); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero target: got %v, want ErrInvalidAmount", err)
	}
	if _, err := NewSubPocket(NewID(), "Rent", EUR(1200), 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero period: got %v, want ErrInvalidAmount", err)
	}
	if _, err := NewSubPocket(NewID(), "", EUR(1200), 12); !errors.Is(err, ErrIntegrity) {
		t.Errorf("missing name: got %v, want ErrIntegrity", err)
	}
}
