package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerly-dev/ledgerly/internal/classify"
	"github.com/ledgerly-dev/ledgerly/internal/currency"
	"github.com/ledgerly-dev/ledgerly/internal/journal"
	"github.com/ledgerly-dev/ledgerly/internal/model"
	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

const dateFlagFormat = "2006-01-02"

func newTxCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and manage transactions",
	}

	cmd.AddCommand(newTxAddCommand(dir))
	cmd.AddCommand(newTxListCommand(dir))
	cmd.AddCommand(newTxEditCommand(dir))
	cmd.AddCommand(newTxRmCommand(dir))
	cmd.AddCommand(newTxRestoreCommand(dir))
	cmd.AddCommand(newTxWipeCommand(dir))
	cmd.AddCommand(newTxHintsCommand())

	return cmd
}

func newTxAddCommand(dir *string) *cobra.Command {
	var date, txnType, nature, amount, curr, category, counterparty, description string
	var from, to int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}

			when := time.Now()
			if date != "" {
				when, err = time.Parse(dateFlagFormat, date)
				if err != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", date)
				}
			}

			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q", amount)
			}

			if curr == "" {
				curr = env.cfg.Profile.BaseCurrency
			}

			txnID, err := env.journal.Add(journal.AddParams{
				Date:         when,
				Type:         taxonomy.TransactionType(txnType),
				Nature:       taxonomy.TransactionNature(nature),
				Amount:       amt,
				Currency:     curr,
				FromAccount:  from,
				ToAccount:    to,
				Category:     category,
				Counterparty: counterparty,
				Description:  description,
				Source:       model.SourceManual,
			})
			var vErr *journal.ValidationFailedError
			if errors.As(err, &vErr) {
				for _, msg := range vErr.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "invalid: %s\n", msg)
				}
				return errors.New("transaction rejected")
			}
			if err != nil {
				return err
			}

			if err := env.save("tx add: " + txnID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s: %s %s %s\n",
				txnID, txnType, nature, currency.Format(amt, curr))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&txnType, "type", "", "income, expense, or transfer (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&nature, "nature", "", "transaction nature, e.g. salary, purchase, loan_given (required)")
	_ = cmd.MarkFlagRequired("nature")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, always positive (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&curr, "currency", "", "currency code (default: base currency)")
	cmd.Flags().IntVar(&from, "from", 0, "source account ID")
	cmd.Flags().IntVar(&to, "to", 0, "destination account ID")
	cmd.Flags().StringVar(&category, "category", "", "spending category (expenses)")
	cmd.Flags().StringVar(&counterparty, "counterparty", "", "counterparty for loans, gifts, reimbursements")
	cmd.Flags().StringVar(&description, "description", "", "free-form description")

	return cmd
}

func newTxListCommand(dir *string) *cobra.Command {
	var month string
	var trash bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a month's transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}

			when := time.Now()
			if month != "" {
				when, err = time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid month %q (want YYYY-MM)", month)
				}
			}

			txns, err := env.journal.ReadMonth(when.Year(), int(when.Month()))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTYPE\tNATURE\tAMOUNT\tFROM\tTO\tDESCRIPTION")
			for _, t := range txns {
				if t.Deleted != trash {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Date.Format(dateFlagFormat), t.Type, t.Nature,
					currency.Format(t.Amount, t.Currency),
					accountLabel(env, t.FromAccount), accountLabel(env, t.ToAccount),
					t.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month YYYY-MM (default: current)")
	cmd.Flags().BoolVar(&trash, "trash", false, "show trashed transactions instead")

	return cmd
}

func accountLabel(env *ledgerEnv, id int) string {
	if id == model.ExternalAccount {
		return "-"
	}
	if a, ok := env.accounts.Get(id); ok {
		return a.Name
	}
	return fmt.Sprintf("#%d", id)
}

func newTxEditCommand(dir *string) *cobra.Command {
	var description, category, amount, nature string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction (changes are audited)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}

			var changes journal.Changes
			if cmd.Flags().Changed("description") {
				changes.Description = &description
			}
			if cmd.Flags().Changed("category") {
				changes.Category = &category
			}
			if cmd.Flags().Changed("amount") {
				amt, err := decimal.NewFromString(amount)
				if err != nil {
					return fmt.Errorf("invalid amount %q", amount)
				}
				changes.Amount = &amt
			}
			if cmd.Flags().Changed("nature") {
				n := taxonomy.TransactionNature(nature)
				changes.Nature = &n
			}

			if err := env.journal.Update(args[0], changes); err != nil {
				return err
			}
			if err := env.save("tx edit: " + args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&nature, "nature", "", "new nature")

	return cmd
}

func newTxRmCommand(dir *string) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Move a transaction to trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}
			if err := env.journal.Trash(args[0], reason); err != nil {
				return err
			}
			if err := env.save("tx rm: " + args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Trashed %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "why this transaction is removed (required)")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func newTxRestoreCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a trashed transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}
			if err := env.journal.Restore(args[0]); err != nil {
				return err
			}
			if err := env.save("tx restore: " + args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", args[0])
			return nil
		},
	}
}

func newTxWipeCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "wipe <id>",
		Short: "Permanently delete a trashed transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}
			if err := env.journal.Wipe(args[0]); err != nil {
				return err
			}
			if err := env.commit("tx wipe: " + args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wiped %s\n", args[0])
			return nil
		},
	}
}

func newTxHintsCommand() *cobra.Command {
	var txnType, nature string

	cmd := &cobra.Command{
		Use:   "hints",
		Short: "Show the entry-form hints for a (type, nature) pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := taxonomy.TransactionType(txnType)
			n := taxonomy.TransactionNature(nature)
			if !taxonomy.IsValidNature(t, n) {
				return fmt.Errorf("nature %q is not valid for type %q", nature, txnType)
			}

			h := classify.Hints(t, n)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "show category field:    %t\n", h.ShowCategory)
			fmt.Fprintf(out, "counterparty required:  %t\n", h.RequireCounterparty)
			fmt.Fprintf(out, "both accounts required: %t\n", h.RequireBothAccounts)
			fmt.Fprintf(out, "affects net worth:      %t\n", h.AffectsNetWorth)
			return nil
		},
	}

	cmd.Flags().StringVar(&txnType, "type", "", "income, expense, or transfer (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&nature, "nature", "", "transaction nature (required)")
	_ = cmd.MarkFlagRequired("nature")

	return cmd
}
