// Package store persists the watch-list record to a single JSON file.
// Every mutation is a whole-file read-modify-write serialized behind one
// mutex, with an atomic rename so a crash cannot leave a partial file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"stockwatch/internal/models"
)

// Store owns the watch-list data file. All access goes through its methods.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a Store backed by the given file path. The file is created
// on first access, not here.
func New(path string) *Store {
	return &Store{path: path}
}

// Get returns the full watch-list record, seeding a default-empty file
// if none exists yet.
func (s *Store) Get() (*models.Watchlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// SaveSymbol appends the symbol to the saved list if it is not already
// present. Saving an existing symbol is a no-op.
func (s *Store) SaveSymbol(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wl, err := s.load()
	if err != nil {
		return err
	}
	if wl.Contains(symbol) {
		return nil
	}
	wl.Stocks = append(wl.Stocks, symbol)
	return s.write(wl)
}

// RemoveSymbol removes the symbol from the saved list. Removing an absent
// symbol is a no-op. The caller is responsible for dropping the symbol
// from the price cache.
func (s *Store) RemoveSymbol(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wl, err := s.load()
	if err != nil {
		return err
	}
	kept := wl.Stocks[:0]
	found := false
	for _, sym := range wl.Stocks {
		if sym == symbol {
			found = true
			continue
		}
		kept = append(kept, sym)
	}
	if !found {
		return nil
	}
	wl.Stocks = kept
	return s.write(wl)
}

// SetNotification upserts the rule for a symbol. An invalid rule
// (unknown direction or non-positive threshold) is rejected without
// touching the file.
func (s *Store) SetNotification(symbol string, rule models.NotificationRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wl, err := s.load()
	if err != nil {
		return err
	}
	wl.Notifications[symbol] = rule
	return s.write(wl)
}

// ClearNotification removes the rule for a symbol. Clearing a symbol with
// no rule is a no-op.
func (s *Store) ClearNotification(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wl, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := wl.Notifications[symbol]; !ok {
		return nil
	}
	delete(wl.Notifications, symbol)
	return s.write(wl)
}

// SetEmail overwrites the notification email address.
func (s *Store) SetEmail(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wl, err := s.load()
	if err != nil {
		return err
	}
	wl.Email = addr
	return s.write(wl)
}

// ClearEmail removes the notification email address.
func (s *Store) ClearEmail() error {
	return s.SetEmail("")
}

// load reads the data file, seeding a default record when the file does
// not exist. Caller must hold s.mu.
func (s *Store) load() (*models.Watchlist, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		wl := models.NewWatchlist()
		if err := s.write(wl); err != nil {
			return nil, err
		}
		return wl, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read watch-list file: %w", err)
	}

	var wl models.Watchlist
	if err := json.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("failed to parse watch-list file: %w", err)
	}
	if wl.Stocks == nil {
		wl.Stocks = []string{}
	}
	if wl.Notifications == nil {
		wl.Notifications = map[string]models.NotificationRule{}
	}
	return &wl, nil
}

// write replaces the data file wholesale via a temp file and rename.
// Caller must hold s.mu.
func (s *Store) write(wl *models.Watchlist) error {
	data, err := json.Marshal(wl)
	if err != nil {
		return fmt.Errorf("failed to encode watch-list: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write watch-list file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace watch-list file: %w", err)
	}
	return nil
}
