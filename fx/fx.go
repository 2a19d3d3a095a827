// Package fx converts monetary amounts between currencies, for books
// whose accounts are held in more than one currency. Rates are fetched
// lazily and cached for a day.
package fx

import (
	"fmt"
	"time"

	"github.com/etnz/pocketbook/quote"
)

// DefaultTTL is how long a fetched exchange rate stays fresh. Rates
// move much slower than stock quotes, a day old rate is good enough to
// report a summary.
const DefaultTTL = 24 * time.Hour

// Pivot is the currency every non-major pair is chained through.
const Pivot = "USD"

// majors are the pairs quoted directly against the pivot by most
// providers. Anything else goes through the pivot.
var majors = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"JPY": true,
	"CHF": true,
}

// RateFunc fetches the rate of one unit of `from` expressed in `to`.
type RateFunc func(from, to string) (float64, error)

// Converter converts amounts between currencies, caching fetched rates.
type Converter struct {
	fetch RateFunc
	cache *quote.Cache
}

// NewConverter returns a Converter using fetch for pair rates.
func NewConverter(fetch RateFunc, ttl time.Duration) *Converter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Converter{fetch: fetch, cache: quote.NewCache(ttl)}
}

// Rate returns the rate of one unit of `from` expressed in `to`.
// Identical currencies are 1.0 without a fetch. Pairs where neither
// side is a major are chained through the pivot: from -> USD -> to.
func (c *Converter) Rate(from, to string) (float64, error) {
	if from == to {
		return 1.0, nil
	}
	if majors[from] || majors[to] {
		return c.pair(from, to)
	}
	left, err := c.pair(from, Pivot)
	if err != nil {
		return 0, err
	}
	right, err := c.pair(Pivot, to)
	if err != nil {
		return 0, err
	}
	return left * right, nil
}

// Convert converts an amount in `from` into its value in `to`.
func (c *Converter) Convert(amount float64, from, to string) (float64, error) {
	rate, err := c.Rate(from, to)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

// pair fetches a direct pair rate, serving from cache when fresh.
func (c *Converter) pair(from, to string) (float64, error) {
	key := from + "/" + to
	if rate, ok := c.cache.Get(key); ok {
		return rate, nil
	}
	rate, err := c.fetch(from, to)
	if err != nil {
		return 0, fmt.Errorf("error fetching rate %q: %w", key, err)
	}
	c.cache.Put(key, rate)
	return rate, nil
}
