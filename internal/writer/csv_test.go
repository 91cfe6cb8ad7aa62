package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/insightdelivered/statement-recon/internal/models"
)

func TestWriteTransactions(t *testing.T) {
	w := &CSVWriter{}
	txns := []models.Transaction{
		{Date: "01/04/2023", Details: "SALARY CREDIT", Credit: 5000, Balance: 15000, Confidence: 0.8},
		{Date: "02/04/2023", Details: "ATM WDL", Debit: 200, Balance: 14800, Confidence: 1},
	}

	var buf bytes.Buffer
	if err := w.WriteTransactions(&buf, txns); err != nil {
		t.Fatalf("WriteTransactions: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines: got %d, want 3", len(lines))
	}
	if lines[0] != "Date,Details,Debit,Credit,Balance,Confidence" {
		t.Errorf("header: got %q", lines[0])
	}
	if lines[1] != "01/04/2023,SALARY CREDIT,0.00,5000.00,15000.00,0.80" {
		t.Errorf("row 1: got %q", lines[1])
	}
	if lines[2] != "02/04/2023,ATM WDL,200.00,0.00,14800.00,1.00" {
		t.Errorf("row 2: got %q", lines[2])
	}
}

func TestWriteReport(t *testing.T) {
	w := &CSVWriter{IncludeSummary: true}
	report := &models.Report{
		Pairs: []models.ComparisonResult{
			{Index: 0, DateMatch: true, AmountMatch: true, BalanceMatch: true, DescriptionSimilarity: 1, Score: 1},
		},
		DateAccuracy:        100,
		AmountAccuracy:      100,
		BalanceAccuracy:     100,
		DescriptionAccuracy: 100,
		OverallScore:        100,
	}

	var buf bytes.Buffer
	if err := w.WriteReport(&buf, report); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "# Overall Score,100.00") {
		t.Errorf("missing summary row in %q", out)
	}
	if !strings.Contains(out, "0,true,true,true,1.0000,1.0000") {
		t.Errorf("missing pair row in %q", out)
	}
}
