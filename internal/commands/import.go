package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerly-dev/ledgerly/internal/classify"
	"github.com/ledgerly-dev/ledgerly/internal/importer"
	"github.com/ledgerly-dev/ledgerly/internal/model"
)

func newImportCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bank statement CSVs",
	}

	cmd.AddCommand(newImportListCommand(dir))
	cmd.AddCommand(newImportRunCommand(dir))

	return cmd
}

func newImportListCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List statements waiting in import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}

			files, err := importer.Scan(env.dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No statements waiting.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tSIZE\tBANK\tACCOUNT TYPE")
			for _, f := range files {
				d := importer.DetectFromFilename(f.Name)
				bank := d.BankName
				if bank == "" {
					bank = "?"
				}
				acctType := d.AccountType
				if acctType == "" {
					acctType = "?"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", f.Name, f.Size, bank, acctType)
			}
			return w.Flush()
		},
	}
}

func newImportRunCommand(dir *string) *cobra.Command {
	var format string
	var accountID int
	var useAI bool

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Classify and record one statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}

			fileName := args[0]
			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q (have: %s)",
					format, strings.Join(importer.DefaultRegistry().Formats(), ", "))
			}

			f, err := os.Open(filepath.Join(env.dir, "import", fileName))
			if err != nil {
				return fmt.Errorf("opening statement: %w", err)
			}
			rows, err := parser.Parse(f)
			f.Close()
			if err != nil {
				return err
			}

			detection := importer.Detect(fileName, nil, "", rows)
			if detection.BankName != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Detected %s (%s, confidence %.2f)\n",
					detection.BankName, detection.Source, detection.Confidence)
			}

			if accountID == 0 {
				accountID, err = resolveImportAccount(cmd, env, detection)
				if err != nil {
					return err
				}
			}
			if !env.accounts.Exists(accountID) {
				return fmt.Errorf("unknown account %d", accountID)
			}
			acct, _ := env.accounts.Get(accountID)

			var classifyRow importer.ClassifyFunc
			if useAI {
				if !env.cfg.AI.Enabled {
					return fmt.Errorf("AI classification is disabled in %s", configFile)
				}
				llm := classify.NewLLMClassifier(env.cfg.APIKey(), env.cfg.AI.BaseURL, env.cfg.AI.Model)
				ctx := cmd.Context()
				if ctx == nil {
					ctx = context.Background()
				}
				classifyRow = func(description string, amount decimal.Decimal) classify.ClassificationResult {
					return llm.Classify(ctx, description, amount)
				}
			}

			proc := importer.NewProcessor(env.journal, classifyRow,
				decimal.NewFromFloat(env.cfg.Thresholds.AutoConfirm))
			summary := proc.Process(rows, accountID, acct.Currency)

			if err := importer.MarkProcessed(env.dir, fileName); err != nil {
				return err
			}
			if err := env.save("import: " + fileName); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d, held for review %d, failed %d\n",
				summary.Added, summary.Review, summary.Failed)
			for _, r := range summary.Results {
				switch {
				case r.Err != nil:
					fmt.Fprintf(out, "  row %d: %s: %v\n", r.Line, r.Description, r.Err)
				case r.NeedsReview:
					fmt.Fprintf(out, "  row %d: %s: review (%s %s, confidence %s)\n",
						r.Line, r.Description, r.Classification.Type,
						r.Classification.Nature, r.Classification.Confidence)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "generic", "statement format")
	cmd.Flags().IntVar(&accountID, "account", 0, "account the statement belongs to (default: resolve from detection)")
	cmd.Flags().BoolVar(&useAI, "ai", false, "classify rows with the configured AI endpoint")

	return cmd
}

// resolveImportAccount finds the account a statement belongs to when no
// --account flag is given: configured bank feed first, then an existing
// account named after the bank, then a new account from the detection.
func resolveImportAccount(cmd *cobra.Command, env *ledgerEnv, d importer.Detection) (int, error) {
	if d.BankCode == "" {
		return 0, fmt.Errorf("could not detect the bank; pass --account")
	}

	if id := env.cfg.FeedAccount(d.BankCode); id != 0 {
		return id, nil
	}

	if a, ok := env.accounts.FindByName(d.BankName); ok {
		return a.ID, nil
	}

	acctType := d.AccountType
	if acctType == "" {
		acctType = "savings"
	}
	a, err := env.accounts.Add(model.Account{
		Name:        d.BankName,
		Type:        acctType,
		Currency:    env.cfg.Profile.BaseCurrency,
		Institution: d.BankName,
	})
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created account %d: %s (%s)\n", a.ID, a.Name, a.Type)
	return a.ID, nil
}
