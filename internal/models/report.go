package models

// ComparisonResult scores one positionally paired transaction across the two
// extraction paths. Score is the unweighted mean of the four factors with
// booleans coerced to 0/1.
type ComparisonResult struct {
	Index                 int     `json:"index"`
	DateMatch             bool    `json:"dateMatch"`
	AmountMatch           bool    `json:"amountMatch"`
	BalanceMatch          bool    `json:"balanceMatch"`
	DescriptionSimilarity float64 `json:"descriptionSimilarity"`
	Score                 float64 `json:"score"`
}

// Report is the outcome of one reconciliation run. A nil *Report means the
// score is undefined because one of the input sequences was empty; callers
// must treat that distinctly from a 0% score.
//
// The accuracy fields are 0-100 percentages rounded to two decimals.
type Report struct {
	Pairs               []ComparisonResult `json:"pairs"`
	CodeCount           int                `json:"codeCount"`
	ExternalCount       int                `json:"externalCount"`
	CountMatched        bool               `json:"countMatched"`
	DateAccuracy        float64            `json:"dateAccuracy"`
	AmountAccuracy      float64            `json:"amountAccuracy"`
	BalanceAccuracy     float64            `json:"balanceAccuracy"`
	DescriptionAccuracy float64            `json:"descriptionAccuracy"`
	OverallScore        float64            `json:"overallScore"`
}

// Verdict classifies an overall reconciliation score.
type Verdict string

const (
	// VerdictAccepted means the rule-based parser is verified (score >= 90).
	VerdictAccepted Verdict = "ACCEPTED"
	// VerdictPartial triggers the human-in-the-loop path (75 <= score < 90).
	VerdictPartial Verdict = "PARTIAL"
	// VerdictRejected is terminal for the document (score < 75).
	VerdictRejected Verdict = "REJECTED"
)
