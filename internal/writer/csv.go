package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/insightdelivered/statement-recon/internal/models"
)

// CSVWriter renders extracted transactions and reconciliation reports as CSV.
type CSVWriter struct {
	// IncludeSummary prefixes report output with overall accuracy rows.
	IncludeSummary bool
}

// WriteTransactionsToFile writes the transaction sequence to a CSV file.
func (w *CSVWriter) WriteTransactionsToFile(path string, txns []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.WriteTransactions(f, txns)
}

// WriteTransactions writes transactions in CSV format to the given writer.
func (w *CSVWriter) WriteTransactions(out io.Writer, txns []models.Transaction) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	header := []string{"Date", "Details", "Debit", "Credit", "Balance", "Confidence"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range txns {
		record := []string{
			txn.Date,
			txn.Details,
			formatAmount(txn.Debit),
			formatAmount(txn.Credit),
			formatAmount(txn.Balance),
			strconv.FormatFloat(txn.Confidence, 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteReport writes per-pair comparison rows, optionally preceded by the
// aggregate accuracy summary.
func (w *CSVWriter) WriteReport(out io.Writer, report *models.Report) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeSummary {
		writer.Write([]string{"# Overall Score", formatAmount(report.OverallScore)})
		writer.Write([]string{"# Date Accuracy", formatAmount(report.DateAccuracy)})
		writer.Write([]string{"# Amount Accuracy", formatAmount(report.AmountAccuracy)})
		writer.Write([]string{"# Balance Accuracy", formatAmount(report.BalanceAccuracy)})
		writer.Write([]string{"# Description Accuracy", formatAmount(report.DescriptionAccuracy)})
	}

	header := []string{"Pair", "DateMatch", "AmountMatch", "BalanceMatch", "DescriptionSimilarity", "Score"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, pair := range report.Pairs {
		record := []string{
			strconv.Itoa(pair.Index),
			strconv.FormatBool(pair.DateMatch),
			strconv.FormatBool(pair.AmountMatch),
			strconv.FormatBool(pair.BalanceMatch),
			strconv.FormatFloat(pair.DescriptionSimilarity, 'f', 4, 64),
			strconv.FormatFloat(pair.Score, 'f', 4, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
