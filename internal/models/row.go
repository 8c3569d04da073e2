package models

// Row state constants
const (
	StateGain = "gain"
	StateLoss = "loss"
	StateFlat = "flat"
)

// Row is one rendered display entry for a symbol.
type Row struct {
	Symbol        string  `json:"symbol"`
	Current       float64 `json:"current"`
	PreviousClose float64 `json:"previous_close"`
	State         string  `json:"state"`
}

// NewRow builds a display row from a quote, deriving the gain/loss state
// from current price against previous close.
func NewRow(symbol string, q Quote) Row {
	state := StateFlat
	if q.Current > q.PreviousClose {
		state = StateGain
	} else if q.Current < q.PreviousClose {
		state = StateLoss
	}
	return Row{
		Symbol:        symbol,
		Current:       q.Current,
		PreviousClose: q.PreviousClose,
		State:         state,
	}
}
