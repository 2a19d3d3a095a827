package pocketbook

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// buildSampleBook exercises every entity kind and movement flag the wire
// format carries.
func buildSampleBook(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, staticPrices{"WLD": 120})
	f.income(t, f.daily, EUR(2500))
	f.expense(t, f.daily, EUR(42.50))
	f.contribute(t, IncomeFixed, f.rent, EUR(1200))
	f.contribute(t, ExpenseFixed, f.phone, EUR(19.99))
	f.invest(t, InvestDeposit, EUR(1000))
	f.invest(t, InvestShares, EUR(8))

	pending := NewMovement(ExpenseNormal, f.checking.ID, f.daily.ID, EUR(75))
	pending.Pending = true
	pending.Notes = "pending card payment"
	if _, err := f.engine.CreateMovement(pending); err != nil {
		t.Fatalf("CreateMovement: %v", err)
	}
	return f
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	f := buildSampleBook(t)

	var buf bytes.Buffer
	if err := EncodeBook(&buf, f.book); err != nil {
		t.Fatalf("EncodeBook: %v", err)
	}

	loaded, err := DecodeBook(&buf)
	if err != nil {
		t.Fatalf("DecodeBook: %v", err)
	}

	for a := range f.book.Accounts() {
		got := loaded.Account(a.ID)
		if got == nil {
			t.Fatalf("account %s lost in round trip", a.Name)
		}
		if got.Name != a.Name || got.Currency != a.Currency || got.Type != a.Type {
			t.Errorf("account %s mismatch: %+v vs %+v", a.Name, got, a)
		}
		if !got.Invested.Equal(a.Invested) || !got.Shares.Equal(a.Shares) {
			t.Errorf("account %s position mismatch", a.Name)
		}
	}
	for m := range f.book.Movements() {
		got := loaded.Movement(m.ID)
		if got == nil {
			t.Fatalf("movement %s lost in round trip", m.ID)
		}
		if !got.Equal(m) {
			t.Errorf("movement mismatch:\n got %+v\nwant %+v", got, m)
		}
	}

	// Subpocket balances are authoritative, and the fixed pocket's
	// derived sum must match after reload.
	if got := loaded.SubPocket(f.rent.ID); !got.Balance.Equal(f.rent.Balance) {
		t.Errorf("rent balance = %s, want %s", got.Balance, f.rent.Balance)
	}
	if got := loaded.Pocket(f.bills.ID); !got.Balance.Equal(f.bills.Balance) {
		t.Errorf("bills balance = %s, want %s", got.Balance, f.bills.Balance)
	}
}

func TestEncodeBook_CanonicalAndStable(t *testing.T) {
	f := buildSampleBook(t)

	var first bytes.Buffer
	if err := EncodeBook(&first, f.book); err != nil {
		t.Fatalf("EncodeBook: %v", err)
	}

	loaded, err := DecodeBook(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatalf("DecodeBook: %v", err)
	}
	var second bytes.Buffer
	if err := EncodeBook(&second, loaded); err != nil {
		t.Fatalf("EncodeBook: %v", err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Errorf("re-encoding is not stable:\n--- first ---\n%s--- second ---\n%s", first.String(), second.String())
	}

	// Canonical order: all accounts, then pockets, subpockets, movements.
	var kinds []string
	for _, line := range strings.Split(strings.TrimSpace(first.String()), "\n") {
		for _, k := range []string{"account", "pocket", "subpocket", "movement"} {
			if strings.Contains(line, `"kind":"`+k+`"`) {
				kinds = append(kinds, k)
				break
			}
		}
	}
	rank := map[string]int{"account": 0, "pocket": 1, "subpocket": 2, "movement": 3}
	for i := 1; i < len(kinds); i++ {
		if rank[kinds[i]] < rank[kinds[i-1]] {
			t.Fatalf("non-canonical order at line %d: %v", i, kinds)
		}
	}
}

func TestDecodeBook_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"garbage", "not json\n"},
		{"unknown kind", `{"kind":"wallet","id":"x"}` + "\n"},
		{"pocket before account", `{"kind":"pocket","id":"p1","account":"a1","name":"Daily","type":"normal"}` + "\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := DecodeBook(strings.NewReader(c.input)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDecodeBook_RejectsDegenerateSubPocket(t *testing.T) {
	prefix := `{"kind":"account","id":"a1","name":"Checking","currency":"EUR","type":"normal"}` + "\n" +
		`{"kind":"pocket","id":"p1","account":"a1","name":"Bills","type":"fixed","balance":0}` + "\n"
	cases := []struct {
		name string
		line string
	}{
		{"zero target", `{"kind":"subpocket","id":"s1","pocket":"p1","name":"Rent","target":0,"months":12,"balance":0,"enabled":true}`},
		{"negative target", `{"kind":"subpocket","id":"s1","pocket":"p1","name":"Rent","target":-100,"months":12,"balance":0,"enabled":true}`},
		{"zero months", `{"kind":"subpocket","id":"s1","pocket":"p1","name":"Rent","target":1200,"months":0,"balance":0,"enabled":true}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := DecodeBook(strings.NewReader(prefix + c.line + "\n"))
			if !errors.Is(err, ErrIntegrity) {
				t.Errorf("DecodeBook = %v, want ErrIntegrity", err)
			}
		})
	}
}

func TestDecodeBook_SkipsEmptyLines(t *testing.T) {
	f := newFixture(t, nil)
	var buf bytes.Buffer
	if err := EncodeBook(&buf, f.book); err != nil {
		t.Fatalf("EncodeBook: %v", err)
	}
	withBlanks := strings.ReplaceAll(buf.String(), "\n", "\n\n")
	if _, err := DecodeBook(strings.NewReader(withBlanks)); err != nil {
		t.Errorf("DecodeBook with blank lines: %v", err)
	}
}
