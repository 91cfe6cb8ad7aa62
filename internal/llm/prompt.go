package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-recon/internal/models"
)

// promptTemplate is the fixed instruction block; %s receives the merged
// transaction rows. It asks for strict JSON, forbids invented rows and keeps
// unclear rows in with a best-guess type.
const promptTemplate = `You are extracting transactions from an Indian bank statement.

Instructions:
- Extract ALL transaction rows you see.
- Do NOT skip transactions just because format is unclear.
- Ignore page headers, footers, and running balances ONLY.
- If type is unclear, infer using amount sign or keywords.
- If unsure, still include transaction with best guess.
- Do NOT invent new transactions.
- Use only the rows provided.

Return STRICT valid JSON only.

Output format:
[
  {
    "date": "YYYY-MM-DD",
    "details": "text",
    "type": "DEBIT or CREDIT",
    "amount": number,
    "balance": number,
    "confidence": number between 0 and 1
  }
]

Transaction Rows:
%s`

// BuildPrompt embeds the merged transaction rows in the instruction block.
func BuildPrompt(rowText string) string {
	return fmt.Sprintf(promptTemplate, rowText)
}

// jsonArrayPattern greedily captures the first top-level bracketed array,
// spanning newlines.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// ExtractJSON pulls a transaction array out of a free-form model reply.
// Code fences and surrounding commentary are tolerated. Any failure —
// no array, broken JSON — yields an empty sequence, never an error: the
// model's output is untrusted and is validated by reconciliation downstream,
// not by schema enforcement here.
func ExtractJSON(response string) []models.ExternalTransaction {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	match := jsonArrayPattern.FindString(response)
	if match == "" {
		return nil
	}

	var txns []models.ExternalTransaction
	if err := json.Unmarshal([]byte(match), &txns); err != nil {
		return nil
	}
	return txns
}
