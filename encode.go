package pocketbook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// kind is the JSONL line discriminator.
type kind string

const (
	kindAccount   kind = "account"
	kindPocket    kind = "pocket"
	kindSubPocket kind = "subpocket"
	kindMovement  kind = "movement"
)

// amountCmd is a specialized struct to read an amount stored in two
// fields on the wire.
type amountCmd struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountCmd) Money() Money { return M(a.Amount, a.Currency) }

// DecodeBook decodes a book from a stream of JSONL data. Canonical files
// list accounts first, then pockets, subpockets and movements, so every
// parent exists by the time a child line is read. Derived balances
// (fixed pockets, account totals) are recomputed before returning.
func DecodeBook(r io.Reader) (*Book, error) {
	book := NewBook()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Kind kind `json:"kind"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify kind in line %q: %w", string(lineBytes), err)
		}

		switch identifier.Kind {
		case kindAccount:
			var temp struct {
				ID       ID              `json:"id"`
				Name     string          `json:"name"`
				Color    string          `json:"color"`
				Currency string          `json:"currency"`
				Type     AccountType     `json:"type"`
				Symbol   string          `json:"symbol"`
				Invested decimal.Decimal `json:"invested"`
				Shares   Quantity        `json:"shares"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			account := &Account{
				ID:       temp.ID,
				Name:     temp.Name,
				Color:    temp.Color,
				Currency: temp.Currency,
				Type:     temp.Type,
				Symbol:   temp.Symbol,
				Invested: M(temp.Invested, temp.Currency),
				Shares:   temp.Shares,
				Balance:  M(0, temp.Currency),
			}
			if err := book.AddAccount(account); err != nil {
				return nil, err
			}
		case kindPocket:
			var temp struct {
				ID        ID              `json:"id"`
				AccountID ID              `json:"account"`
				Name      string          `json:"name"`
				Type      PocketType      `json:"type"`
				Balance   decimal.Decimal `json:"balance"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			pocket := &Pocket{
				ID:        temp.ID,
				AccountID: temp.AccountID,
				Name:      temp.Name,
				Type:      temp.Type,
				Balance:   M(temp.Balance, ""), // currency set by AddPocket
			}
			if err := book.AddPocket(pocket); err != nil {
				return nil, err
			}
		case kindSubPocket:
			var temp struct {
				ID       ID              `json:"id"`
				PocketID ID              `json:"pocket"`
				Name     string          `json:"name"`
				Target   decimal.Decimal `json:"target"`
				Months   int             `json:"months"`
				Balance  decimal.Decimal `json:"balance"`
				Enabled  bool            `json:"enabled"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			// Installment and progress divide by these; a hand-edited
			// file must not smuggle in a zero.
			if !temp.Target.IsPositive() {
				return nil, fmt.Errorf("%w: subpocket %q target must be positive, got %s", ErrIntegrity, temp.Name, temp.Target)
			}
			if temp.Months <= 0 {
				return nil, fmt.Errorf("%w: subpocket %q periodicity must be positive, got %d", ErrIntegrity, temp.Name, temp.Months)
			}
			sub := &SubPocket{
				ID:           temp.ID,
				PocketID:     temp.PocketID,
				Name:         temp.Name,
				Target:       M(temp.Target, ""),
				PeriodMonths: temp.Months,
				Balance:      M(temp.Balance, ""),
				Enabled:      temp.Enabled,
			}
			if err := book.AddSubPocket(sub); err != nil {
				return nil, err
			}
		case kindMovement:
			var temp struct {
				amountCmd
				ID          ID           `json:"id"`
				Type        MovementType `json:"type"`
				AccountID   ID           `json:"account"`
				PocketID    ID           `json:"pocket"`
				SubPocketID ID           `json:"subpocket"`
				Notes       string       `json:"notes"`
				Date        Date         `json:"date"`
				CreatedAt   string       `json:"createdAt"`
				Pending     bool         `json:"pending"`
				Orphaned    OrphanReason `json:"orphaned"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			createdAt, err := time.Parse(DatetimeFormat, temp.CreatedAt)
			if err != nil {
				return nil, fmt.Errorf("invalid movement timestamp %q: %w", temp.CreatedAt, err)
			}
			movement := &Movement{
				ID:          temp.ID,
				Type:        temp.Type,
				AccountID:   temp.AccountID,
				PocketID:    temp.PocketID,
				SubPocketID: temp.SubPocketID,
				Amount:      temp.Money(),
				Notes:       temp.Notes,
				Date:        temp.Date,
				CreatedAt:   createdAt,
				Pending:     temp.Pending,
				Orphaned:    temp.Orphaned,
			}
			if err := book.AddMovement(movement); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown entity kind: %q", identifier.Kind)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	// Derived balances are never trusted from the wire.
	RecomputeAll(book, NoPrices)

	return book, nil
}

// EncodeEntity marshals a single entity to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeEntity(w io.Writer, entity json.Marshaler) error {
	decimal.MarshalJSONWithoutQuotes = true
	data, err := entity.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write entity: %w", err)
	}
	return nil
}

// EncodeBook persists a book to an io.Writer in canonical JSONL format:
// accounts sorted by name, then pockets, subpockets, and movements in
// ledger order, with stable key order within each line.
func EncodeBook(w io.Writer, book *Book) error {
	decimal.MarshalJSONWithoutQuotes = true

	for account := range book.Accounts() {
		if err := EncodeEntity(w, account); err != nil {
			return err
		}
	}
	for account := range book.Accounts() {
		for pocket := range book.AccountPockets(account.ID) {
			if err := EncodeEntity(w, pocket); err != nil {
				return err
			}
		}
	}
	for account := range book.Accounts() {
		for pocket := range book.AccountPockets(account.ID) {
			for sub := range book.PocketSubPockets(pocket.ID) {
				if err := EncodeEntity(w, sub); err != nil {
					return err
				}
			}
		}
	}
	for movement := range book.Movements() {
		if err := EncodeEntity(w, movement); err != nil {
			return err
		}
	}
	return nil
}
