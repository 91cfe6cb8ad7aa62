package parser

import (
	"strings"
	"testing"
)

const goodCandidate = `package parser

import "github.com/insightdelivered/statement-recon/internal/models"

func ParseDocument(path string, password string) ([]models.Transaction, error) {
	return []models.Transaction{
		{Date: "01/04/2023", Details: "SALARY", Credit: 5000, Balance: 15000, Confidence: 1},
	}, nil
}
`

const panickingCandidate = `package parser

import "github.com/insightdelivered/statement-recon/internal/models"

func ParseDocument(path string, password string) ([]models.Transaction, error) {
	var txns []models.Transaction
	_ = txns[3]
	return txns, nil
}
`

func TestValidateSource(t *testing.T) {
	cases := []struct {
		name    string
		source  string
		wantErr string
	}{
		{"empty", "", "no parser code provided"},
		{"whitespace only", "   \n\t", "no parser code provided"},
		{"missing package clause", "func ParseDocument(path string, password string) {}", "package clause"},
		{"missing entry point", "package parser\n\nfunc Other() {}", "must define ParseDocument"},
		{"valid", goodCandidate, ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateSource(c.source)
			if c.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("error: got %v, want containing %q", err, c.wantErr)
			}
		})
	}
}

func TestSandboxParser_Parse(t *testing.T) {
	p := NewSandboxParser(goodCandidate)

	txns, err := p.Parse("unused.pdf", "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("transactions: got %d, want 1", len(txns))
	}
	if txns[0].Details != "SALARY" || txns[0].Credit != 5000 {
		t.Errorf("txn: got %+v", txns[0])
	}
}

func TestSandboxParser_BrokenSource(t *testing.T) {
	p := NewSandboxParser("package parser\n\nfunc ParseDocument(") // unparseable

	if _, err := p.Parse("unused.pdf", ""); err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestSandboxParser_WrongSignature(t *testing.T) {
	p := NewSandboxParser(`package parser

func ParseDocument(path string) string { return path }
`)

	_, err := p.Parse("unused.pdf", "")
	if err == nil || !strings.Contains(err.Error(), "signature") {
		t.Fatalf("error: got %v, want signature mismatch", err)
	}
}

func TestSandboxParser_PanicRecovered(t *testing.T) {
	p := NewSandboxParser(panickingCandidate)

	_, err := p.Parse("unused.pdf", "")
	if err == nil {
		t.Fatal("expected an execution error from the recovered panic")
	}
}
