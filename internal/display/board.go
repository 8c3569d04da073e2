// Package display models the rendered stock panels. Worker goroutines
// never hold references into a board's row slice; they mutate it only
// through these methods and readers always get copies.
package display

import (
	"sync"

	"stockwatch/internal/models"
)

// Board is an ordered list of display rows.
type Board struct {
	mu   sync.Mutex
	rows []models.Row
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Clear removes all rows.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = nil
}

// Append adds one row at the end.
func (b *Board) Append(row models.Row) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = append(b.rows, row)
}

// ReplaceAll swaps in a full new set of rows.
func (b *Board) ReplaceAll(rows []models.Row) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = append([]models.Row(nil), rows...)
}

// Rows returns a copy of the current rows in display order.
func (b *Board) Rows() []models.Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Row, len(b.rows))
	copy(out, b.rows)
	return out
}
