package models

// Quote holds the two price fields consumed from the quote source.
type Quote struct {
	Current       float64 `json:"c"`
	PreviousClose float64 `json:"pc"`
}

// CompanyProfile holds descriptive company metadata for a symbol.
// All fields may be empty when the quote source has no data.
type CompanyProfile struct {
	Name                 string  `json:"name"`
	Country              string  `json:"country"`
	Currency             string  `json:"currency"`
	Exchange             string  `json:"exchange"`
	MarketCapitalization float64 `json:"market_capitalization"`
}
