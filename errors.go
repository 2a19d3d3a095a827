package pocketbook

import "errors"

// Error kinds raised by Book, Engine and Store operations. They are always
// wrapped with context (fmt.Errorf and %w) so callers match them with
// errors.Is.
var (
	// ErrNotFound reports a referenced Account, Pocket, SubPocket or
	// Movement that does not exist in the book.
	ErrNotFound = errors.New("not found")

	// ErrInvalidAmount reports a zero or negative movement amount.
	// Direction is implied by the movement type, never by the sign.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrIntegrity reports a referential or uniqueness violation: a
	// parent mismatch, a duplicate name, a second fixed pocket, or an
	// investment account owning a fixed pocket.
	ErrIntegrity = errors.New("integrity violation")

	// ErrInvalidState reports an illegal lifecycle transition, such as
	// applying an already-applied movement.
	ErrInvalidState = errors.New("invalid state")

	// ErrPersistence reports a failed store operation. The book has
	// already been mutated locally; callers must reload authoritative
	// state to resynchronize.
	ErrPersistence = errors.New("persistence failure")
)
