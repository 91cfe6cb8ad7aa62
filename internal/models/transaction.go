package models

// Transaction is one parsed statement line item from the rule-based parser.
// Debit and Credit are split columns; at most one is non-zero for a cleanly
// classified row. Confidence expresses extraction certainty: 1.0 when an
// explicit amount agrees with the balance delta, 0.8 when repaired from the
// delta, 0.5 when a row was captured with no attributable amount.
type Transaction struct {
	Date       string  `json:"date"`
	Details    string  `json:"details"`
	Debit      float64 `json:"debit"`
	Credit     float64 `json:"credit"`
	Balance    float64 `json:"balance"`
	Confidence float64 `json:"confidence"`
}

// Amount returns the transaction amount regardless of direction: the debit
// value when present, otherwise the credit value.
func (t Transaction) Amount() float64 {
	if t.Debit != 0 {
		return t.Debit
	}
	return t.Credit
}

// Transaction types used by the external extraction path.
const (
	TypeDebit  = "DEBIT"
	TypeCredit = "CREDIT"
)

// ExternalTransaction is the shape produced by the LLM extraction path:
// a unified amount with an explicit type instead of split debit/credit columns.
type ExternalTransaction struct {
	Date       string  `json:"date"`
	Details    string  `json:"details"`
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
	Balance    float64 `json:"balance"`
	Confidence float64 `json:"confidence"`
}
