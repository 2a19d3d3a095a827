package quote

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCache_TTL(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(15 * time.Minute)
	c.now = func() time.Time { return clock }

	if _, ok := c.Get("WLD"); ok {
		t.Error("empty cache should miss")
	}
	c.Put("WLD", 123.45)
	if got, ok := c.Get("WLD"); !ok || got != 123.45 {
		t.Errorf("Get = %v, %v", got, ok)
	}

	clock = clock.Add(14 * time.Minute)
	if _, ok := c.Get("WLD"); !ok {
		t.Error("entry expired too early")
	}
	clock = clock.Add(time.Minute)
	if _, ok := c.Get("WLD"); ok {
		t.Error("entry should have expired")
	}

	c.Put("WLD", 130)
	if got, ok := c.Get("WLD"); !ok || got != 130 {
		t.Errorf("Get after refresh = %v, %v", got, ok)
	}
}

func TestService_Price(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprintf(w, `{"last": 42.5, "bid": 42.4}`)
	}))
	defer srv.Close()

	s := NewService(srv.Client(), srv.URL+"/?isin=", "$.last", time.Minute)

	got, ok := s.Price("IE00B4L5Y983")
	if !ok || got != 42.5 {
		t.Fatalf("Price = %v, %v", got, ok)
	}

	// Second call within the TTL is served from the cache.
	if _, ok := s.Price("IE00B4L5Y983"); !ok {
		t.Fatal("cached Price failed")
	}
	if hits != 1 {
		t.Errorf("provider hit %d times, want 1", hits)
	}

	if _, ok := s.Price(""); ok {
		t.Error("empty symbol should miss")
	}
}

func TestService_ProviderErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>maintenance</html>")
		}},
		{"price not a number", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"last": "./."}`)
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(c.handler)
			defer srv.Close()
			s := NewService(srv.Client(), srv.URL+"/?isin=", "$.last", time.Minute)
			if _, ok := s.Price("X"); ok {
				t.Error("expected ok=false")
			}
		})
	}
}

func TestService_JSONPathList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"series":{"intraday":{"data":[[1,1.04],[2,1.05]]}}}`)
	}))
	defer srv.Close()

	s := NewService(srv.Client(), srv.URL+"/?id=", "$.series.intraday.data[-1:][1]", time.Minute)
	got, ok := s.Price("349938")
	if !ok || got != 1.05 {
		t.Errorf("Price = %v, %v", got, ok)
	}
}
