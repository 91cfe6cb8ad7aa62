package parser

import (
	"fmt"
	"os"
	"sync"
)

// Store persists the active-parser override: a single optional file whose
// presence means a promoted human parser is authoritative and whose content
// is that parser's source. Removing the file reverts to the default
// rule-based parser; there is no version history.
//
// The mutex serializes read-decide-write cycles so concurrent promotion
// attempts within one process cannot interleave.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save persists candidate source as the active parser, overwriting any prior
// override.
func (s *Store) Save(source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, []byte(source), 0o644); err != nil {
		return fmt.Errorf("persisting active parser: %w", err)
	}
	return nil
}

// Load returns the persisted override source. ok is false when no override
// is active.
func (s *Store) Load() (source string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading active parser: %w", err)
	}
	return string(data), true, nil
}

// Clear removes the override, reverting to the default parser. Clearing an
// absent override is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing active parser: %w", err)
	}
	return nil
}

// Active resolves the parser subsequent runs must use: the sandboxed
// override when one is persisted, otherwise the default rule-based parser.
func (s *Store) Active() (Parser, error) {
	source, ok, err := s.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewDefaultParser(), nil
	}
	return NewSandboxParser(source), nil
}
