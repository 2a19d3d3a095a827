package fx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// tableRates returns a RateFunc backed by a static table, counting calls.
func tableRates(rates map[string]float64, calls *int) RateFunc {
	return func(from, to string) (float64, error) {
		*calls++
		rate, ok := rates[from+"/"+to]
		if !ok {
			return 0, fmt.Errorf("no market for %s/%s", from, to)
		}
		return rate, nil
	}
}

func TestRate_SameCurrency(t *testing.T) {
	calls := 0
	c := NewConverter(tableRates(nil, &calls), time.Minute)
	rate, err := c.Rate("EUR", "EUR")
	if err != nil || rate != 1.0 {
		t.Errorf("Rate = %v, %v", rate, err)
	}
	if calls != 0 {
		t.Errorf("identity rate fetched %d times, want 0", calls)
	}
}

func TestRate_MajorPair(t *testing.T) {
	calls := 0
	c := NewConverter(tableRates(map[string]float64{"EUR/USD": 1.05}, &calls), time.Minute)

	rate, err := c.Rate("EUR", "USD")
	if err != nil || rate != 1.05 {
		t.Fatalf("Rate = %v, %v", rate, err)
	}
	// Second request within the TTL is a cache hit.
	if _, err := c.Rate("EUR", "USD"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("fetched %d times, want 1", calls)
	}
}

func TestRate_PivotChaining(t *testing.T) {
	calls := 0
	c := NewConverter(tableRates(map[string]float64{
		"SEK/USD": 0.095,
		"USD/NOK": 10.5,
	}, &calls), time.Minute)

	rate, err := c.Rate("SEK", "NOK")
	if err != nil {
		t.Fatal(err)
	}
	want := 0.095 * 10.5
	if rate != want {
		t.Errorf("Rate = %v, want %v", rate, want)
	}
	if calls != 2 {
		t.Errorf("fetched %d times, want 2 legs", calls)
	}
}

func TestConvert(t *testing.T) {
	calls := 0
	c := NewConverter(tableRates(map[string]float64{"EUR/USD": 1.05}, &calls), time.Minute)
	got, err := c.Convert(100, "EUR", "USD")
	if err != nil || got != 105 {
		t.Errorf("Convert = %v, %v", got, err)
	}
}

func TestJSONRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("base") != "EUR" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"base":"EUR","rates":{"USD":1.05}}`)
	}))
	defer srv.Close()

	fetch := JSONRate(srv.Client(), srv.URL+"/latest?base={from}&symbols={to}", "$.rates.{to}")
	rate, err := fetch("EUR", "USD")
	if err != nil || rate != 1.05 {
		t.Errorf("JSONRate = %v, %v", rate, err)
	}
	if _, err := fetch("SEK", "USD"); err == nil {
		t.Error("404 should be an error")
	}
}

func TestRate_FetchError(t *testing.T) {
	boom := errors.New("provider down")
	c := NewConverter(func(from, to string) (float64, error) { return 0, boom }, time.Minute)
	if _, err := c.Rate("EUR", "USD"); !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped provider error", err)
	}
}
