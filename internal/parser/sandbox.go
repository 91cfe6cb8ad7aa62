package parser

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/insightdelivered/statement-recon/internal/extractor"
	"github.com/insightdelivered/statement-recon/internal/models"
)

// EntryPoint is the function a human-supplied parser must define:
//
//	func ParseDocument(path string, password string) ([]models.Transaction, error)
const EntryPoint = "ParseDocument"

var packageClausePattern = regexp.MustCompile(`(?m)^\s*package\s+([A-Za-z_]\w*)`)

// sandboxSymbols exposes the transaction types and the document text
// extraction helpers to interpreted candidate code.
var sandboxSymbols = interp.Exports{
	"github.com/insightdelivered/statement-recon/internal/models/models": {
		"Transaction":         reflect.ValueOf((*models.Transaction)(nil)),
		"ExternalTransaction": reflect.ValueOf((*models.ExternalTransaction)(nil)),
		"TypeDebit":           reflect.ValueOf(models.TypeDebit),
		"TypeCredit":          reflect.ValueOf(models.TypeCredit),
	},
	"github.com/insightdelivered/statement-recon/internal/extractor/extractor": {
		"ExtractText":         reflect.ValueOf(extractor.ExtractText),
		"ExtractTextCombined": reflect.ValueOf(extractor.ExtractTextCombined),
	},
}

// ValidateSource checks candidate parser source textually before any
// execution is attempted: it must be non-empty, carry a package clause and
// define the required entry point.
func ValidateSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return fmt.Errorf("no parser code provided")
	}
	if packageClausePattern.FindStringSubmatch(source) == nil {
		return fmt.Errorf("parser code must start with a package clause")
	}
	if !strings.Contains(source, "func "+EntryPoint+"(") {
		return fmt.Errorf("parser code must define %s(path string, password string) ([]models.Transaction, error)", EntryPoint)
	}
	return nil
}

// SandboxParser runs human-supplied parser source in a Go interpreter.
// The source is evaluated fresh on every Parse call; interpreter state never
// leaks between documents.
type SandboxParser struct {
	source string
}

// NewSandboxParser wraps candidate source. The source is not validated here;
// callers run ValidateSource first.
func NewSandboxParser(source string) *SandboxParser {
	return &SandboxParser{source: source}
}

func (p *SandboxParser) Name() string {
	return "human-promoted"
}

// Parse interprets the candidate source and invokes its entry point.
// Panics inside the interpreted code are recovered into execution errors so
// a broken candidate cannot take down the workflow.
func (p *SandboxParser) Parse(path, password string) (txns []models.Transaction, err error) {
	defer func() {
		if r := recover(); r != nil {
			txns = nil
			err = fmt.Errorf("parser execution panicked: %v", r)
		}
	}()

	m := packageClausePattern.FindStringSubmatch(p.source)
	if m == nil {
		return nil, fmt.Errorf("parser code must start with a package clause")
	}
	pkgName := m[1]

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("priming interpreter: %w", err)
	}
	if err := i.Use(sandboxSymbols); err != nil {
		return nil, fmt.Errorf("exposing host symbols: %w", err)
	}

	if _, err := i.Eval(p.source); err != nil {
		return nil, fmt.Errorf("compiling parser code: %w", err)
	}

	v, err := i.Eval(pkgName + "." + EntryPoint)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", EntryPoint, err)
	}

	fn, ok := v.Interface().(func(string, string) ([]models.Transaction, error))
	if !ok {
		return nil, fmt.Errorf("%s has the wrong signature: want func(path string, password string) ([]models.Transaction, error)", EntryPoint)
	}

	result, callErr := fn(path, password)
	if callErr != nil {
		return nil, fmt.Errorf("parser execution failed: %w", callErr)
	}
	return result, nil
}
