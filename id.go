package pocketbook

import "github.com/google/uuid"

// ID identifies an Account, Pocket, SubPocket or Movement within a book.
type ID string

// NewID returns a fresh random ID.
func NewID() ID { return ID(uuid.NewString()) }

func (id ID) String() string { return string(id) }

// IsZero returns true for the empty ID.
func (id ID) IsZero() bool { return id == "" }
