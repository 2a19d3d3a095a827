// Package quote fetches market prices for investment accounts from a
// remote JSON endpoint, with a short-lived in-memory cache so a batch of
// balance derivations does not hammer the provider.
package quote

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// DefaultTTL is how long a fetched price stays fresh.
const DefaultTTL = 15 * time.Minute

// Service resolves a ticker symbol to its latest price. It implements
// the price source contract expected by the balance engine: a miss is
// reported with ok=false, never with an error, so that a flaky provider
// cannot block a ledger mutation.
type Service struct {
	client *http.Client
	base   string // e.g. "https://www.tradegate.de/refresh.php?isin="
	path   string // jsonpath into the response, e.g. "$.last"
	cache  *Cache
}

// NewService returns a Service fetching <base><symbol> and extracting
// the price at the given jsonpath. A nil client uses http.DefaultClient.
func NewService(client *http.Client, base, path string, ttl time.Duration) *Service {
	if client == nil {
		client = http.DefaultClient
	}
	return &Service{
		client: client,
		base:   base,
		path:   path,
		cache:  NewCache(ttl),
	}
}

// Price returns the latest known price for symbol. It serves from the
// cache when fresh, otherwise fetches. ok is false when the symbol is
// empty, the provider is unreachable, or the response cannot be parsed.
func (s *Service) Price(symbol string) (float64, bool) {
	if symbol == "" {
		return 0, false
	}
	if price, ok := s.cache.Get(symbol); ok {
		return price, true
	}
	price, err := s.fetch(symbol)
	if err != nil {
		log.Printf("quote %q: %v", symbol, err)
		return 0, false
	}
	s.cache.Put(symbol, price)
	return price, true
}

func (s *Service) fetch(symbol string) (float64, error) {
	var jobj any
	if err := jwget(s.client, s.base+symbol, &jobj); err != nil {
		return math.NaN(), fmt.Errorf("error retrieving %q: %w", symbol, err)
	}
	jval, err := jsonpath.Get(s.path, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error parsing %q: %q %w", symbol, s.path, err)
	}
	// jsonpath is never clear about whether it returns a list of one
	// answer or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("error parsing %q: %q not a float: %v", symbol, s.path, jval)
	}
	return val, nil
}

// jwget GETs addr and decodes the JSON body into data.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %v: %v", addr, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
