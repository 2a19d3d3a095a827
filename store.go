package pocketbook

import (
	"bytes"
	"fmt"
	"os"
	"sync"
)

// Store is the abstract remote persistence consumed by the Engine: one
// CRUD surface per entity collection. The Engine mutates the book
// locally first, then commits through the store; a failing store call
// surfaces as ErrPersistence and the caller is expected to reload
// authoritative state.
type Store interface {
	InsertAccount(a *Account) error
	UpdateAccount(a *Account) error
	DeleteAccount(id ID) error

	InsertPocket(p *Pocket) error
	UpdatePocket(p *Pocket) error
	DeletePocket(id ID) error

	InsertSubPocket(s *SubPocket) error
	UpdateSubPocket(s *SubPocket) error
	DeleteSubPocket(id ID) error

	InsertMovement(m *Movement) error
	UpdateMovement(m *Movement) error
	DeleteMovement(id ID) error
}

// MemoryStore is an in-process Store keeping shallow copies of the
// entities it was given. It is the test double for the remote store and
// lets tests inspect exactly what was committed.
type MemoryStore struct {
	mu         sync.Mutex
	accounts   map[ID]Account
	pockets    map[ID]Pocket
	subpockets map[ID]SubPocket
	movements  map[ID]Movement
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:   make(map[ID]Account),
		pockets:    make(map[ID]Pocket),
		subpockets: make(map[ID]SubPocket),
		movements:  make(map[ID]Movement),
	}
}

func (s *MemoryStore) InsertAccount(a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[a.ID]; exists {
		return fmt.Errorf("account %q already stored", a.ID)
	}
	s.accounts[a.ID] = *a
	return nil
}

func (s *MemoryStore) UpdateAccount(a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[a.ID]; !exists {
		return fmt.Errorf("account %q not stored", a.ID)
	}
	s.accounts[a.ID] = *a
	return nil
}

func (s *MemoryStore) DeleteAccount(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
	return nil
}

func (s *MemoryStore) InsertPocket(p *Pocket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pockets[p.ID]; exists {
		return fmt.Errorf("pocket %q already stored", p.ID)
	}
	s.pockets[p.ID] = *p
	return nil
}

func (s *MemoryStore) UpdatePocket(p *Pocket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pockets[p.ID]; !exists {
		return fmt.Errorf("pocket %q not stored", p.ID)
	}
	s.pockets[p.ID] = *p
	return nil
}

func (s *MemoryStore) DeletePocket(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pockets, id)
	return nil
}

func (s *MemoryStore) InsertSubPocket(sp *SubPocket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subpockets[sp.ID]; exists {
		return fmt.Errorf("subpocket %q already stored", sp.ID)
	}
	s.subpockets[sp.ID] = *sp
	return nil
}

func (s *MemoryStore) UpdateSubPocket(sp *SubPocket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subpockets[sp.ID]; !exists {
		return fmt.Errorf("subpocket %q not stored", sp.ID)
	}
	s.subpockets[sp.ID] = *sp
	return nil
}

func (s *MemoryStore) DeleteSubPocket(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subpockets, id)
	return nil
}

func (s *MemoryStore) InsertMovement(m *Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.movements[m.ID]; exists {
		return fmt.Errorf("movement %q already stored", m.ID)
	}
	s.movements[m.ID] = *m
	return nil
}

func (s *MemoryStore) UpdateMovement(m *Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.movements[m.ID]; !exists {
		return fmt.Errorf("movement %q not stored", m.ID)
	}
	s.movements[m.ID] = *m
	return nil
}

func (s *MemoryStore) DeleteMovement(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.movements, id)
	return nil
}

// StoredMovement returns the committed copy of a movement, for tests.
func (s *MemoryStore) StoredMovement(id ID) (Movement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movements[id]
	return m, ok
}

// StoredMovements returns the number of committed movement rows.
func (s *MemoryStore) StoredMovements() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

// FileStore commits the canonical JSONL encoding of the live book to a
// file after every mutation. It implements the "remote write after
// optimistic local mutation" half of the engine contract for the CLI.
type FileStore struct {
	path string
	book *Book
}

// NewFileStore creates a store flushing the given book to path.
func NewFileStore(path string, book *Book) *FileStore {
	return &FileStore{path: path, book: book}
}

func (s *FileStore) flush() error {
	var buf bytes.Buffer
	if err := EncodeBook(&buf, s.book); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing book file %q: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) InsertAccount(*Account) error      { return s.flush() }
func (s *FileStore) UpdateAccount(*Account) error      { return s.flush() }
func (s *FileStore) DeleteAccount(ID) error            { return s.flush() }
func (s *FileStore) InsertPocket(*Pocket) error        { return s.flush() }
func (s *FileStore) UpdatePocket(*Pocket) error        { return s.flush() }
func (s *FileStore) DeletePocket(ID) error             { return s.flush() }
func (s *FileStore) InsertSubPocket(*SubPocket) error  { return s.flush() }
func (s *FileStore) UpdateSubPocket(*SubPocket) error  { return s.flush() }
func (s *FileStore) DeleteSubPocket(ID) error          { return s.flush() }
func (s *FileStore) InsertMovement(*Movement) error    { return s.flush() }
func (s *FileStore) UpdateMovement(*Movement) error    { return s.flush() }
func (s *FileStore) DeleteMovement(ID) error           { return s.flush() }
