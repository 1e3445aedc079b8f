package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerly-dev/ledgerly/internal/currency"
	"github.com/ledgerly-dev/ledgerly/internal/reports"
)

func newReportCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports",
	}

	cmd.AddCommand(newReportCashflowCommand(dir))
	cmd.AddCommand(newReportSummaryCommand(dir))
	cmd.AddCommand(newReportBalanceCommand(dir))
	cmd.AddCommand(newReportLoansCommand(dir))
	cmd.AddCommand(newReportNetworthCommand(dir))

	return cmd
}

func reportPeriod(from, to string) (time.Time, time.Time, error) {
	now := time.Now()
	start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	end := now

	var err error
	if from != "" {
		start, err = time.Parse(dateFlagFormat, from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from %q", from)
		}
	}
	if to != "" {
		end, err = time.Parse(dateFlagFormat, to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to %q", to)
		}
	}
	return start, end, nil
}

func newReportCashflowCommand(dir *string) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "cashflow",
		Short: "Cash flow: all movements, transfers included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}
			start, end, err := reportPeriod(from, to)
			if err != nil {
				return err
			}

			cf, err := reports.NewEngine(env.journal, env.accounts).CashFlow(start, end)
			if err != nil {
				return err
			}

			cur := env.cfg.Profile.BaseCurrency
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cash flow %s to %s\n", start.Format(dateFlagFormat), end.Format(dateFlagFormat))
			fmt.Fprintf(out, "  inflows:  %s\n", currency.Format(cf.Inflows, cur))
			fmt.Fprintf(out, "  outflows: %s\n", currency.Format(cf.Outflows, cur))
			fmt.Fprintf(out, "  net:      %s\n", currency.Format(cf.Net, cur))

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MONTH\tINFLOWS\tOUTFLOWS\tNET")
			for _, m := range cf.ByMonth {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Month,
					m.Inflows.StringFixed(2), m.Outflows.StringFixed(2), m.Net.StringFixed(2))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date YYYY-MM-DD (default: start of year)")
	cmd.Flags().StringVar(&to, "to", "", "end date YYYY-MM-DD (default: today)")

	return cmd
}

func newReportSummaryCommand(dir *string) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Income and expenses, transfers excluded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}
			start, end, err := reportPeriod(from, to)
			if err != nil {
				return err
			}

			s, err := reports.NewEngine(env.journal, env.accounts).IncomeExpenseSummary(start, end)
			if err != nil {
				return err
			}

			cur := env.cfg.Profile.BaseCurrency
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Income:       %s\n", currency.Format(s.TotalIncome, cur))
			fmt.Fprintf(out, "Expenses:     %s\n", currency.Format(s.TotalExpenses, cur))
			fmt.Fprintf(out, "Net:          %s\n", currency.Format(s.Net, cur))
			fmt.Fprintf(out, "Savings rate: %s%%\n", s.SavingsRate.StringFixed(1))

			if len(s.IncomeByNature) > 0 {
				fmt.Fprintln(out, "\nIncome by nature:")
				for _, n := range s.IncomeByNature {
					fmt.Fprintf(out, "  %-24s %s\n", n.Name, currency.Format(n.Total, cur))
				}
			}
			if len(s.ExpenseByCategory) > 0 {
				fmt.Fprintln(out, "\nExpenses by category:")
				for _, n := range s.ExpenseByCategory {
					fmt.Fprintf(out, "  %-24s %s\n", n.Name, currency.Format(n.Total, cur))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date YYYY-MM-DD (default: start of year)")
	cmd.Flags().StringVar(&to, "to", "", "end date YYYY-MM-DD (default: today)")

	return cmd
}

func newReportBalanceCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Balance sheet: assets, liabilities, net worth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}

			bs := reports.NewEngine(env.journal, env.accounts).BalanceSheet()
			cur := env.cfg.Profile.BaseCurrency
			out := cmd.OutOrStdout()

			section := func(title string, entries []reports.AccountBalance) {
				if len(entries) == 0 {
					return
				}
				fmt.Fprintf(out, "%s:\n", title)
				for _, e := range entries {
					fmt.Fprintf(out, "  %-24s %s\n", e.Name, currency.Format(e.Balance, e.Currency))
				}
			}
			section("Assets", bs.Assets)
			section("Receivables", bs.Receivables)
			section("Liabilities", bs.Liabilities)
			section("Payables", bs.Payables)

			fmt.Fprintf(out, "\nTotal assets:      %s\n", currency.Format(bs.TotalAssets, cur))
			fmt.Fprintf(out, "Total liabilities: %s\n", currency.Format(bs.TotalLiabilities, cur))
			fmt.Fprintf(out, "Net worth:         %s\n", currency.Format(bs.NetWorth, cur))
			return nil
		},
	}
}

func newReportLoansCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "loans",
		Short: "Outstanding loans in both directions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}

			lp := reports.NewEngine(env.journal, env.accounts).OutstandingLoans()
			cur := env.cfg.Profile.BaseCurrency
			out := cmd.OutOrStdout()

			if len(lp.LoansGiven) == 0 && len(lp.LoansReceived) == 0 {
				fmt.Fprintln(out, "No outstanding loans.")
				return nil
			}

			for _, l := range lp.LoansGiven {
				fmt.Fprintf(out, "owed to me: %-20s %s\n", l.Counterparty, currency.Format(l.Balance, l.Currency))
			}
			for _, l := range lp.LoansReceived {
				fmt.Fprintf(out, "I owe:      %-20s %s\n", l.Counterparty, currency.Format(l.Balance, l.Currency))
			}
			fmt.Fprintf(out, "\nNet position: %s\n", currency.Format(lp.NetPosition, cur))
			return nil
		},
	}
}

func newReportNetworthCommand(dir *string) *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "networth",
		Short: "Monthly net worth timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}

			timeline, err := reports.NewEngine(env.journal, env.accounts).NetWorthTimeline(time.Now(), months)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MONTH\tNET WORTH\tINCOME\tEXPENSES")
			for _, p := range timeline {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Month,
					p.NetWorth.StringFixed(2), p.Income.StringFixed(2), p.Expenses.StringFixed(2))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&months, "months", 12, "how many months back")

	return cmd
}
