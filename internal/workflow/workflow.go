// Package workflow orchestrates one reconciliation run per document and the
// human-in-the-loop promotion protocol around its verdict.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/insightdelivered/statement-recon/internal/extractor"
	"github.com/insightdelivered/statement-recon/internal/models"
	"github.com/insightdelivered/statement-recon/internal/normalizer"
	"github.com/insightdelivered/statement-recon/internal/parser"
	"github.com/insightdelivered/statement-recon/internal/recon"
)

// Inference is the external model extraction capability the workflow needs.
type Inference interface {
	ExtractTransactions(ctx context.Context, rowText string) ([]models.ExternalTransaction, string, error)
}

// Runner wires the active-parser store, the inference adapter and the
// reconciliation engine. Runs are synchronous and single-document; the only
// blocking operations are PDF text extraction and the inference call.
type Runner struct {
	Store  *parser.Store
	LLM    Inference
	Engine *recon.Engine

	// extractText indirection exists for tests that have no real PDF.
	extractText func(path, password string) (string, error)
}

// NewRunner builds a Runner around the given collaborators.
func NewRunner(store *parser.Store, inference Inference, engine *recon.Engine) *Runner {
	return &Runner{
		Store:       store,
		LLM:         inference,
		Engine:      engine,
		extractText: extractor.ExtractTextCombined,
	}
}

// RunResult is the outcome of one compare run. Report is nil when either
// extraction produced no transactions; the score is undefined then and
// Verdict is empty.
type RunResult struct {
	ParserName  string                       `json:"parserName"`
	Code        []models.Transaction         `json:"code"`
	External    []models.ExternalTransaction `json:"external"`
	RowText     string                       `json:"rowText,omitempty"`
	RawResponse string                       `json:"-"`
	Report      *models.Report               `json:"report"`
	Verdict     models.Verdict               `json:"verdict,omitempty"`
}

// Compare runs both extraction paths over the document and reconciles them.
// Document access failures abort the run; a malformed model reply degrades
// to zero external transactions and an undefined score.
func (r *Runner) Compare(ctx context.Context, path, password string) (*RunResult, error) {
	active, err := r.Store.Active()
	if err != nil {
		return nil, err
	}

	code, err := active.Parse(path, password)
	if err != nil {
		return nil, fmt.Errorf("%s parser: %w", active.Name(), err)
	}
	log.Info().Str("parser", active.Name()).Int("transactions", len(code)).Msg("rule-based extraction done")

	rowText, err := r.mergedRows(path, password)
	if err != nil {
		return nil, err
	}

	external, raw, err := r.LLM.ExtractTransactions(ctx, rowText)
	if err != nil {
		return nil, err
	}
	log.Info().Int("transactions", len(external)).Msg("external extraction done")

	result := &RunResult{
		ParserName:  active.Name(),
		Code:        code,
		External:    external,
		RowText:     rowText,
		RawResponse: raw,
		Report:      r.Engine.Compare(code, external),
	}
	if result.Report != nil {
		result.Verdict = recon.Classify(result.Report.OverallScore)
		log.Info().
			Float64("score", result.Report.OverallScore).
			Str("verdict", string(result.Verdict)).
			Msg("reconciliation verdict")
	} else {
		log.Warn().Int("code", len(code)).Int("external", len(external)).
			Msg("score undefined: one extraction path produced no transactions")
	}
	return result, nil
}

// PromotionResult reports one candidate trial. Promoted is true only when
// the trial score cleared the promotion threshold and the source was
// persisted as the active parser.
type PromotionResult struct {
	Report   *models.Report `json:"report"`
	Score    float64        `json:"score"`
	Promoted bool           `json:"promoted"`
}

// ValidateCandidate trial-runs human-supplied parser source against the
// document and scores it against a fresh external extraction using the
// lenient tolerance. Source that fails textual validation is never executed;
// execution failures are reported without touching the persisted active
// parser. A score of exactly the threshold promotes.
func (r *Runner) ValidateCandidate(ctx context.Context, path, password, source string) (*PromotionResult, error) {
	if err := parser.ValidateSource(source); err != nil {
		return nil, err
	}

	rowText, err := r.mergedRows(path, password)
	if err != nil {
		return nil, err
	}
	external, _, err := r.LLM.ExtractTransactions(ctx, rowText)
	if err != nil {
		return nil, err
	}

	trial, err := parser.NewSandboxParser(source).Parse(path, password)
	if err != nil {
		return nil, fmt.Errorf("candidate parser: %w", err)
	}
	log.Info().Int("trial", len(trial)).Int("external", len(external)).Msg("candidate trial run done")

	report := recon.NewEngine(recon.Lenient).Compare(trial, external)
	if report == nil {
		return &PromotionResult{}, nil
	}

	result := &PromotionResult{Report: report, Score: report.OverallScore}
	if report.OverallScore >= recon.PromotionThreshold {
		if err := r.Store.Save(source); err != nil {
			return nil, err
		}
		result.Promoted = true
		log.Info().Float64("score", report.OverallScore).Msg("candidate promoted to active parser")
	} else {
		log.Info().Float64("score", report.OverallScore).Msg("candidate rejected, active parser unchanged")
	}
	return result, nil
}

// Deactivate removes a promoted override, reverting to the default
// rule-based parser. Deactivating with no override in place is a no-op.
func (r *Runner) Deactivate() error {
	return r.Store.Clear()
}

// mergedRows extracts the document text and merges physical lines into
// logical transaction rows for the inference prompt.
func (r *Runner) mergedRows(path, password string) (string, error) {
	text, err := r.extractText(path, password)
	if err != nil {
		return "", err
	}
	return strings.Join(normalizer.MergeRows(text), "\n"), nil
}
