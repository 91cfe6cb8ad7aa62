package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/insightdelivered/statement-recon/internal/models"
)

// Transaction rows start with an optional row index followed by a date in one
// of three shapes: numeric DD/MM/YYYY, DD-Mon-YYYY, or ISO YYYY-MM-DD.
// Separators may be space, slash or dash.
var dateAnchorPattern = regexp.MustCompile(
	`^\s*(?:\d+\s+)?(\d{1,2}[ /\-](?:\d{1,2}|[A-Za-z]{3})[ /\-]\d{2,4}|\d{4}-\d{2}-\d{2})`,
)

// moneyPattern matches decimal amounts with Indian digit grouping
// (e.g. 1,23,456.78) as well as plain western grouping.
var moneyPattern = regexp.MustCompile(`(\d+(?:,\d{2})*(?:,\d{3})*\.\d{2})`)

// broughtForwardPattern locates the opening balance annotation, with an
// optional DR/CR suffix. DR negates the value.
var broughtForwardPattern = regexp.MustCompile(`(?i)Brought Forward\(.*?\)\s+([\d,]+\.\d{2})(CR|DR)?`)

// Direction keywords for two-amount lines. Word-bounded so that narration
// words like CREDIT or DRAFT do not trigger them.
var (
	debitKeywordPattern  = regexp.MustCompile(`\b(?:DR|WDL)\b`)
	creditKeywordPattern = regexp.MustCompile(`\b(?:CR|DEP)\b`)
)

// Default line filters for the statement layout this extractor is tuned for.
var (
	defaultTerminationMarkers = []string{
		"GRAND TOTAL",
		"*** END OF STATEMENT ***",
		"END OF STATEMENT",
		"ABBREVIATIONS USED",
		"DISCLAIMER",
	}

	defaultMetadataKeywords = []string{
		"Customer ID", "Account Number", "IFSC", "MICR",
		"Joint Holders", "Branch", "Statement From",
		"Nomination", "Currency", "Page ",
		"Digitally signed", "Generated on", "Date of Statement",
		"Clear Balance", "Monthly Avg Balance", "Account Status",
		"Account open Date", "Nominee Name", "Uncleared Amount",
		"CIF Number", "Product", "Lien", "Limit", "Interest Rate",
		"CKYCR Number", "Drawing Power",
	}

	defaultHeaderLabels = []string{
		"Txn Date", "Narration", "Withdrawals",
		"Deposits", "Closing Balance", "Brought Forward",
	}

	// Standalone balance-carry labels that must not leak into narrations.
	defaultCarryLabels = []string{"BALANCE", "DEP TFR", "WDL TFR", "TRANSFER"}
)

// Extractor converts normalized statement text into an ordered transaction
// sequence using date-anchored segmentation, amount-role inference and a
// balance-delta repair pass. The filter sets default to the single statement
// layout the extractor is tuned for and can be overridden per instance.
type Extractor struct {
	TerminationMarkers []string
	MetadataKeywords   []string
	HeaderLabels       []string
	CarryLabels        []string
}

// NewExtractor returns an Extractor with the default filter sets.
func NewExtractor() *Extractor {
	return &Extractor{
		TerminationMarkers: defaultTerminationMarkers,
		MetadataKeywords:   defaultMetadataKeywords,
		HeaderLabels:       defaultHeaderLabels,
		CarryLabels:        defaultCarryLabels,
	}
}

// Extract parses full statement text into transactions. Lines with no
// attributable amount degrade to low-confidence records rather than errors.
func (e *Extractor) Extract(text string) []models.Transaction {
	text = strings.ReplaceAll(text, " ", " ")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, strings.TrimRight(line, " \t\r"))
	}

	initialBalance := e.initialBalance(text)

	var transactions []models.Transaction
	var current *models.Transaction

	for _, line := range lines {
		cleanLine := strings.TrimSpace(line)
		if cleanLine == "" {
			continue
		}

		upper := strings.ToUpper(cleanLine)
		if e.isTerminator(upper) {
			break
		}
		if strings.HasPrefix(upper, "ACCOUNT SUMMARY") && len(transactions) > 0 {
			break
		}

		loc := dateAnchorPattern.FindStringSubmatchIndex(line)
		if loc != nil {
			if current != nil {
				transactions = append(transactions, *current)
			}
			current = e.openTransaction(line, loc)
			continue
		}

		if current != nil && !e.isNoise(upper) {
			current.Details += " " + cleanLine
		}
	}

	if current != nil {
		transactions = append(transactions, *current)
	}

	RepairBalances(transactions, initialBalance)

	for i := range transactions {
		transactions[i].Details = strings.Join(strings.Fields(transactions[i].Details), " ")
	}

	return transactions
}

// openTransaction builds a record from a date-anchored line. The last money
// token is the running balance; with three or more tokens the third- and
// second-from-last are debit and credit; with exactly two the first is the
// transaction amount, attributed by DR/WDL vs CR/DEP keywords.
func (e *Extractor) openTransaction(line string, loc []int) *models.Transaction {
	date := line[loc[2]:loc[3]]
	upper := strings.ToUpper(line)

	moneyTokens := moneyPattern.FindAllString(line, -1)
	amounts := make([]float64, 0, len(moneyTokens))
	for _, m := range moneyTokens {
		amounts = append(amounts, parseMoney(m))
	}

	var balance, debit, credit float64
	if len(amounts) > 0 {
		balance = amounts[len(amounts)-1]
	}

	switch {
	case len(amounts) >= 3:
		debit = amounts[len(amounts)-3]
		credit = amounts[len(amounts)-2]
	case len(amounts) == 2:
		txAmt := amounts[0]
		if debitKeywordPattern.MatchString(upper) {
			debit = txAmt
		} else if creditKeywordPattern.MatchString(upper) {
			credit = txAmt
		}
	}

	details := strings.TrimSpace(line[loc[1]:])
	for _, m := range moneyTokens {
		details = strings.Replace(details, m, "", 1)
	}
	details = strings.ReplaceAll(details, " . ", " ")
	details = strings.ReplaceAll(details, " - ", " ")
	details = strings.TrimSpace(details)

	confidence := 0.5
	if debit > 0 || credit > 0 {
		confidence = 1.0
	}

	return &models.Transaction{
		Date:       date,
		Details:    details,
		Debit:      debit,
		Credit:     credit,
		Balance:    balance,
		Confidence: confidence,
	}
}

// RepairBalances runs the balance-delta repair pass in place, using
// initialBalance as the implicit predecessor of the first record. A record
// with no attributable amount gets the missing side assigned from the
// absolute delta at confidence 0.8; records whose credit-debit difference
// agrees with the delta within 0.01 keep confidence 1.0, all others drop to
// 0.8 without value changes. The pass is idempotent on consistent sequences.
func RepairBalances(txns []models.Transaction, initialBalance float64) {
	for i := range txns {
		prevBalance := initialBalance
		if i > 0 {
			prevBalance = txns[i-1].Balance
		}
		delta := txns[i].Balance - prevBalance

		if txns[i].Debit == 0 && txns[i].Credit == 0 && abs(delta) > 0.001 {
			if delta > 0 {
				txns[i].Credit = abs(delta)
			} else {
				txns[i].Debit = abs(delta)
			}
			txns[i].Confidence = 0.8
			continue
		}

		actualDiff := txns[i].Credit - txns[i].Debit
		if abs(actualDiff-delta) < 0.01 {
			txns[i].Confidence = 1.0
		} else {
			txns[i].Confidence = 0.8
		}
	}
}

// initialBalance scans the whole text for the brought-forward annotation.
// Absent annotation defaults to 0.
func (e *Extractor) initialBalance(text string) float64 {
	m := broughtForwardPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	val := parseMoney(m[1])
	if strings.ToUpper(m[2]) == "DR" {
		return -val
	}
	return val
}

func (e *Extractor) isTerminator(upper string) bool {
	for _, marker := range e.TerminationMarkers {
		if upper == marker {
			return true
		}
	}
	return false
}

// isNoise reports whether a continuation line is statement boilerplate
// rather than narration text. upper is the trimmed upper-cased line.
func (e *Extractor) isNoise(upper string) bool {
	for _, kw := range e.MetadataKeywords {
		if strings.Contains(upper, strings.ToUpper(kw)) {
			return true
		}
	}
	for _, label := range e.HeaderLabels {
		if strings.Contains(upper, strings.ToUpper(label)) {
			return true
		}
	}
	for _, label := range e.CarryLabels {
		if upper == label {
			return true
		}
	}
	return false
}

func parseMoney(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
