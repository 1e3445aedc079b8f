package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerly-dev/ledgerly/internal/classify"
	"github.com/ledgerly-dev/ledgerly/internal/model"
	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

func newCheckCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify ledger integrity",
		Long: `Re-validates every transaction, confirms each month's postings
balance to zero, and recomputes account balances against the registry.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}

			var problems []string
			report := func(format string, a ...any) {
				problems = append(problems, fmt.Sprintf(format, a...))
			}

			months, err := env.journal.Months()
			if err != nil {
				return err
			}

			computed := map[int]decimal.Decimal{}
			for _, m := range months {
				txns, err := env.journal.ReadMonth(m[0], m[1])
				if err != nil {
					return err
				}
				for _, t := range txns {
					if t.Deleted {
						continue
					}
					res := classify.Validate(classify.Input{
						Type:            t.Type,
						Nature:          t.Nature,
						Amount:          t.Amount,
						Currency:        t.Currency,
						FromAccount:     t.FromAccount,
						ToAccount:       t.ToAccount,
						FromAccountType: env.accounts.TypeOf(t.FromAccount),
						ToAccountType:   env.accounts.TypeOf(t.ToAccount),
						Category:        t.Category,
						Counterparty:    t.Counterparty,
					})
					for _, msg := range res.Errors {
						report("%s: %s", t.ID, msg)
					}
				}

				postings, err := env.journal.ReadPostingsMonth(m[0], m[1])
				if err != nil {
					return err
				}
				totalDebit := decimal.Zero
				totalCredit := decimal.Zero
				for _, p := range postings {
					totalDebit = totalDebit.Add(p.Debit)
					totalCredit = totalCredit.Add(p.Credit)

					if p.AccountID == model.ExternalAccount {
						continue
					}
					delta := p.Debit.Sub(p.Credit)
					acct := taxonomy.AccountingTypeOf(env.accounts.TypeOf(p.AccountID))
					if acct == taxonomy.Liability || acct == taxonomy.Payable {
						delta = delta.Neg()
					}
					computed[p.AccountID] = computed[p.AccountID].Add(delta)
				}
				if !totalDebit.Equal(totalCredit) {
					report("%04d-%02d: postings do not balance: debit=%s credit=%s",
						m[0], m[1], totalDebit.StringFixed(2), totalCredit.StringFixed(2))
				}
			}

			for _, a := range env.accounts.All() {
				want := computed[a.ID]
				if !a.Balance.Equal(want) {
					report("account %d (%s): stored balance %s, postings say %s",
						a.ID, a.Name, a.Balance.StringFixed(2), want.StringFixed(2))
				}
			}

			out := cmd.OutOrStdout()
			if len(problems) == 0 {
				fmt.Fprintln(out, "ok: ledger is consistent")
				return nil
			}
			for _, p := range problems {
				fmt.Fprintln(out, "problem: "+p)
			}
			return fmt.Errorf("%d problem(s) found", len(problems))
		},
	}
}
