// Package recon pairs the two extraction paths positionally, scores each
// pair on four factors and classifies the aggregate against the decision
// thresholds.
package recon

import (
	"math"

	"github.com/insightdelivered/statement-recon/internal/models"
)

// Decision thresholds over the 0-100 overall score. Both bounds are
// inclusive on their lower edge: exactly 90.0 is accepted, exactly 75.0 is
// partial.
const (
	AcceptThreshold  = 90.0
	PartialThreshold = 75.0

	// PromotionThreshold is the bar a human-supplied trial parser must clear
	// against the external baseline to become the active parser.
	PromotionThreshold = 90.0
)

// Tolerance configures amount and balance equality. A zero field means exact
// floating-point equality; a positive field means absolute difference
// strictly under it. Both variants exist in practice and neither is
// canonical, so callers choose explicitly.
type Tolerance struct {
	Amount  float64
	Balance float64
}

var (
	// Strict compares amounts and balances by exact equality.
	Strict = Tolerance{}
	// Lenient accepts differences under one currency unit, the tolerance the
	// human-candidate validation path uses.
	Lenient = Tolerance{Amount: 1, Balance: 1}
)

func within(a, b, tol float64) bool {
	if tol == 0 {
		return a == b
	}
	return math.Abs(a-b) < tol
}

// Engine scores rule-based output against the external extraction.
type Engine struct {
	Tolerance Tolerance
}

// NewEngine returns an Engine with the given tolerance.
func NewEngine(tol Tolerance) *Engine {
	return &Engine{Tolerance: tol}
}

// Compare pairs the sequences strictly by position up to the shorter length
// and produces the reconciliation report. No alignment corrects for inserted
// or dropped rows; one extra row on either side shifts every later pair, a
// known limitation. Returns nil when either sequence is empty: the score is
// undefined there, which is not the same as 0%.
func (e *Engine) Compare(code []models.Transaction, external []models.ExternalTransaction) *models.Report {
	n := len(code)
	if len(external) < n {
		n = len(external)
	}
	if n == 0 {
		return nil
	}

	report := &models.Report{
		CodeCount:     len(code),
		ExternalCount: len(external),
		CountMatched:  len(code) == len(external),
	}

	dateMatches, amountMatches, balanceMatches := 0, 0, 0
	descTotal, scoreTotal := 0.0, 0.0

	for i := 0; i < n; i++ {
		c := code[i]
		x := external[i]

		pair := models.ComparisonResult{
			Index:                 i,
			DateMatch:             c.Date == x.Date,
			AmountMatch:           within(c.Amount(), x.Amount, e.Tolerance.Amount),
			BalanceMatch:          within(c.Balance, x.Balance, e.Tolerance.Balance),
			DescriptionSimilarity: Ratio(c.Details, x.Details),
		}

		score := pair.DescriptionSimilarity
		if pair.DateMatch {
			dateMatches++
			score++
		}
		if pair.AmountMatch {
			amountMatches++
			score++
		}
		if pair.BalanceMatch {
			balanceMatches++
			score++
		}
		pair.Score = score / 4

		descTotal += pair.DescriptionSimilarity
		scoreTotal += pair.Score
		report.Pairs = append(report.Pairs, pair)
	}

	total := float64(n)
	report.DateAccuracy = round2(float64(dateMatches) / total * 100)
	report.AmountAccuracy = round2(float64(amountMatches) / total * 100)
	report.BalanceAccuracy = round2(float64(balanceMatches) / total * 100)
	report.DescriptionAccuracy = round2(descTotal / total * 100)
	report.OverallScore = round2(scoreTotal / total * 100)

	return report
}

// Classify maps an overall score onto the accept/escalate/reject partition.
func Classify(score float64) models.Verdict {
	switch {
	case score >= AcceptThreshold:
		return models.VerdictAccepted
	case score >= PartialThreshold:
		return models.VerdictPartial
	default:
		return models.VerdictRejected
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
