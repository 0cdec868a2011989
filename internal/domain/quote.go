package domain

import "github.com/shopspring/decimal"

// Quote represents a current market quote for one symbol.
// Quotes are supplied by a QuoteProvider and are read-only to the ledger.
type Quote struct {
	Symbol        string
	Name          string
	Sector        string
	Price         decimal.Decimal // always > 0 for a valid quote
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	Volume        int64
	High          decimal.Decimal
	Low           decimal.Decimal
	Open          decimal.Decimal
	PreviousClose decimal.Decimal
}
