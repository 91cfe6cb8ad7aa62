package parser

import (
	"regexp"

	"github.com/insightdelivered/statement-recon/internal/extractor"
	"github.com/insightdelivered/statement-recon/internal/models"
)

// Parser is the extraction contract: given a document path and an optional
// password, produce the ordered transaction sequence. The compiled-in default
// and dynamically loaded human-supplied parsers both implement it.
type Parser interface {
	// Parse extracts the transactions of the statement at path.
	Parse(path, password string) ([]models.Transaction, error)
	// Name identifies the parser in logs and reports.
	Name() string
}

// DefaultParser is the built-in rule-based parser: PDF text extraction
// composed with the tuned Extractor.
type DefaultParser struct {
	Extractor *Extractor
}

// NewDefaultParser returns the rule-based parser with default filters.
func NewDefaultParser() *DefaultParser {
	return &DefaultParser{Extractor: NewExtractor()}
}

func (p *DefaultParser) Name() string {
	return "rule-based"
}

func (p *DefaultParser) Parse(path, password string) ([]models.Transaction, error) {
	text, err := extractor.ExtractTextCombined(path, password)
	if err != nil {
		return nil, err
	}
	return p.Extractor.Extract(text), nil
}

// DateAnchor returns the broad multi-format date anchor used for row
// segmentation, for callers that merge rows outside the extractor.
func DateAnchor() *regexp.Regexp {
	return dateAnchorPattern
}
