package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-recon/internal/api"
	"github.com/insightdelivered/statement-recon/internal/config"
	"github.com/insightdelivered/statement-recon/internal/llm"
	"github.com/insightdelivered/statement-recon/internal/parser"
	"github.com/insightdelivered/statement-recon/internal/recon"
	"github.com/insightdelivered/statement-recon/internal/workflow"
	"github.com/insightdelivered/statement-recon/internal/writer"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var password string
	var strict bool
	var codePath string
	var outputPath string

	root := &cobra.Command{
		Use:           "statement-recon",
		Short:         "Reconcile rule-based and LLM extractions of bank statements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	compare := &cobra.Command{
		Use:   "compare <statement.pdf>",
		Short: "Run both extraction paths and score them against each other",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := newRunner(strict)
			if err != nil {
				return err
			}
			result, err := runner.Compare(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			printRunResult(result)
			return nil
		},
	}
	compare.Flags().StringVar(&password, "password", "", "PDF password, if any")
	compare.Flags().BoolVar(&strict, "strict", false, "compare amounts and balances by exact equality")

	validate := &cobra.Command{
		Use:   "validate <statement.pdf>",
		Short: "Trial-run a human-supplied parser and promote it if it scores well enough",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(codePath)
			if err != nil {
				return fmt.Errorf("reading candidate source: %w", err)
			}
			runner, _, err := newRunner(false)
			if err != nil {
				return err
			}
			result, err := runner.ValidateCandidate(cmd.Context(), args[0], password, string(source))
			if err != nil {
				return err
			}
			printPromotionResult(result)
			return nil
		},
	}
	validate.Flags().StringVar(&password, "password", "", "PDF password, if any")
	validate.Flags().StringVar(&codePath, "code", "", "path to the candidate parser source file")
	validate.MarkFlagRequired("code")

	deactivate := &cobra.Command{
		Use:   "deactivate",
		Short: "Remove a promoted parser override, reverting to the default parser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := newRunner(false)
			if err != nil {
				return err
			}
			if err := runner.Deactivate(); err != nil {
				return err
			}
			fmt.Println("Active parser override removed.")
			return nil
		},
	}

	export := &cobra.Command{
		Use:   "export <statement.pdf>",
		Short: "Extract transactions with the active parser and write them as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := newRunner(false)
			if err != nil {
				return err
			}
			active, err := parser.NewStore(cfg.ActiveParserPath).Active()
			if err != nil {
				return err
			}
			txns, err := active.Parse(args[0], password)
			if err != nil {
				return err
			}
			out := outputPath
			if out == "" {
				out = args[0] + ".csv"
			}
			w := &writer.CSVWriter{}
			if err := w.WriteTransactionsToFile(out, txns); err != nil {
				return err
			}
			fmt.Printf("Wrote %d transaction(s) to %s\n", len(txns), out)
			return nil
		},
	}
	export.Flags().StringVar(&password, "password", "", "PDF password, if any")
	export.Flags().StringVar(&outputPath, "output", "", "output CSV path (defaults to <input>.csv)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cfg, err := newRunner(false)
			if err != nil {
				return err
			}
			app := fiber.New(fiber.Config{BodyLimit: 32 << 20})
			(&api.Handler{Runner: runner}).Register(app)
			log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
			return app.Listen(cfg.ListenAddr)
		},
	}

	root.AddCommand(compare, validate, deactivate, export, serve)
	return root
}

func newRunner(strict bool) (*workflow.Runner, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}

	tol := recon.Tolerance{Amount: cfg.AmountTolerance, Balance: cfg.BalanceTolerance}
	if strict {
		tol = recon.Strict
	}

	runner := workflow.NewRunner(
		parser.NewStore(cfg.ActiveParserPath),
		llm.NewClient(cfg.AnthropicAPIKey, cfg.LLMModel, cfg.LLMMaxTokens),
		recon.NewEngine(tol),
	)
	return runner, cfg, nil
}

func printRunResult(result *workflow.RunResult) {
	fmt.Printf("Parser: %s\n", result.ParserName)
	fmt.Printf("Code parser transactions: %d\n", len(result.Code))
	fmt.Printf("LLM transactions: %d\n", len(result.External))

	if len(result.Code) == len(result.External) {
		fmt.Println("Transaction count MATCHED")
	} else {
		fmt.Println("Transaction count MISMATCH")
	}

	if result.Report == nil {
		fmt.Println("Unable to compute accuracy (no transactions).")
		return
	}

	fmt.Println("\n--- Detailed Accuracy ---")
	fmt.Printf("Date Match Accuracy: %.2f%%\n", result.Report.DateAccuracy)
	fmt.Printf("Amount Match Accuracy: %.2f%%\n", result.Report.AmountAccuracy)
	fmt.Printf("Balance Match Accuracy: %.2f%%\n", result.Report.BalanceAccuracy)
	fmt.Printf("Description Similarity: %.2f%%\n", result.Report.DescriptionAccuracy)
	fmt.Printf("\nOverall Extraction Accuracy: %.2f%%\n", result.Report.OverallScore)
	fmt.Printf("Verdict: %s\n", result.Verdict)
}

func printPromotionResult(result *workflow.PromotionResult) {
	if result.Report == nil {
		fmt.Println("Unable to compute trial score (no transactions).")
		return
	}
	fmt.Printf("Trial score: %.2f%%\n", result.Score)
	if result.Promoted {
		fmt.Println("Candidate promoted: it is now the active parser.")
	} else {
		fmt.Println("Candidate not promoted; the active parser is unchanged.")
	}
}
