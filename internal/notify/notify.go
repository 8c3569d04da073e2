// Package notify evaluates notification rules against freshly fetched
// prices and dispatches at most one summary email per refresh cycle.
package notify

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"stockwatch/internal/models"
)

// Subject is the fixed subject line of every notification email.
const Subject = "Stock prices notification"

const bodyIntro = "The following stocks have reached your wanted price ranges:"

// Mailer dispatches one plain-text email.
type Mailer interface {
	Send(subject, body string, recipients []string) error
}

// RuleStore clears a symbol's rule once it has fired.
type RuleStore interface {
	ClearNotification(symbol string) error
}

// Notifier turns threshold crossings into a single outbound email.
type Notifier struct {
	store  RuleStore
	mailer Mailer
	log    zerolog.Logger
}

// New creates a Notifier.
func New(store RuleStore, mailer Mailer, log zerolog.Logger) *Notifier {
	return &Notifier{
		store:  store,
		mailer: mailer,
		log:    log.With().Str("component", "notifier").Logger(),
	}
}

// Notify evaluates every active rule against the given prices. Each
// satisfied rule contributes one body line and is cleared so it fires at
// most once. With no configured address the rules are left untouched.
// Send failures are logged and swallowed; the refresh schedule must not
// depend on email delivery.
func (n *Notifier) Notify(prices map[string]models.Quote, wl *models.Watchlist) {
	if wl.Email == "" || len(wl.Notifications) == 0 {
		return
	}

	// Stable body line order regardless of map iteration.
	symbols := make([]string, 0, len(wl.Notifications))
	for sym := range wl.Notifications {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	body := bodyIntro
	fired := 0
	for _, sym := range symbols {
		rule := wl.Notifications[sym]
		quote, ok := prices[sym]
		if !ok || !rule.Satisfied(quote.Current) {
			continue
		}
		if err := n.store.ClearNotification(sym); err != nil {
			n.log.Error().Err(err).Str("symbol", sym).Msg("failed to clear fired rule")
			continue
		}
		body += "\n" + firedLine(sym, rule, quote.Current)
		fired++
	}

	if fired == 0 {
		return
	}
	if err := n.mailer.Send(Subject, body, []string{wl.Email}); err != nil {
		n.log.Error().Err(err).Str("to", wl.Email).Msg("failed to send notification email")
		return
	}
	n.log.Info().Int("alerts", fired).Str("to", wl.Email).Msg("notification email sent")
}

func firedLine(symbol string, rule models.NotificationRule, current float64) string {
	price := strconv.FormatFloat(current, 'f', -1, 64)
	if rule.Direction == models.DirectionAtOrAbove {
		return fmt.Sprintf("%s has surpassed $%s and is now valued at $%s",
			symbol, rule.Threshold, price)
	}
	return fmt.Sprintf("%s has fallen below $%s and is now valued at $%s",
		symbol, rule.Threshold, price)
}
