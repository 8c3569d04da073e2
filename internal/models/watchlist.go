package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Notification rule direction constants. The on-disk values match the
// comparison operators the rule applies.
const (
	DirectionAtOrAbove = ">="
	DirectionAtOrBelow = "<="
)

// ErrInvalidRule is returned when a notification rule has an unknown
// direction or a non-positive threshold.
var ErrInvalidRule = errors.New("invalid notification rule")

// NotificationRule is a per-symbol price threshold. Once the current price
// satisfies the comparison the rule fires and is removed.
type NotificationRule struct {
	Direction string
	Threshold decimal.Decimal
}

// Validate checks that the direction is known and the threshold is positive.
func (r NotificationRule) Validate() error {
	if r.Direction != DirectionAtOrAbove && r.Direction != DirectionAtOrBelow {
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidRule, r.Direction)
	}
	if !r.Threshold.IsPositive() {
		return fmt.Errorf("%w: threshold must be positive, got %s", ErrInvalidRule, r.Threshold)
	}
	return nil
}

// Satisfied reports whether the given current price meets the rule's
// comparison. Both comparisons are boundary inclusive.
func (r NotificationRule) Satisfied(current float64) bool {
	price := decimal.NewFromFloat(current)
	switch r.Direction {
	case DirectionAtOrAbove:
		return price.GreaterThanOrEqual(r.Threshold)
	case DirectionAtOrBelow:
		return price.LessThanOrEqual(r.Threshold)
	default:
		return false
	}
}

// MarshalJSON writes the rule in its on-disk form, a two-element array of
// direction string and threshold number.
func (r NotificationRule) MarshalJSON() ([]byte, error) {
	dir, err := json.Marshal(r.Direction)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("[%s,%s]", dir, r.Threshold.String())), nil
}

// UnmarshalJSON reads the [direction, threshold] array form.
func (r *NotificationRule) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("failed to parse notification rule: %w", err)
	}
	if len(tuple) != 2 {
		return fmt.Errorf("failed to parse notification rule: expected [direction, threshold], got %d elements", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &r.Direction); err != nil {
		return fmt.Errorf("failed to parse notification rule direction: %w", err)
	}
	var num json.Number
	if err := json.Unmarshal(tuple[1], &num); err != nil {
		return fmt.Errorf("failed to parse notification rule threshold: %w", err)
	}
	threshold, err := decimal.NewFromString(num.String())
	if err != nil {
		return fmt.Errorf("failed to parse notification rule threshold: %w", err)
	}
	r.Threshold = threshold
	return nil
}

// Watchlist is the durable record: saved symbols in display order, the
// notification email address (empty means none), and active rules by symbol.
type Watchlist struct {
	Stocks        []string                    `json:"STOCKS"`
	Email         string                      `json:"EMAIL"`
	Notifications map[string]NotificationRule `json:"NOTIFICATIONS"`
}

// NewWatchlist returns an empty record suitable for seeding a fresh data file.
func NewWatchlist() *Watchlist {
	return &Watchlist{
		Stocks:        []string{},
		Notifications: map[string]NotificationRule{},
	}
}

// Contains reports whether the symbol is already saved.
func (w *Watchlist) Contains(symbol string) bool {
	for _, s := range w.Stocks {
		if s == symbol {
			return true
		}
	}
	return false
}
