package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgerly-dev/ledgerly/internal/model"
	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

func newAccountCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the account registry",
	}

	cmd.AddCommand(newAccountAddCommand(dir))
	cmd.AddCommand(newAccountListCommand(dir))
	cmd.AddCommand(newAccountDeactivateCommand(dir))
	cmd.AddCommand(newAccountReactivateCommand(dir))

	return cmd
}

func newAccountAddCommand(dir *string) *cobra.Command {
	var acctType, currency, institution, masked, counterparty, notes string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}

			if currency == "" {
				currency = env.cfg.Profile.BaseCurrency
			}
			if !taxonomy.KnownAccountType(acctType) {
				fmt.Fprintf(cmd.OutOrStdout(), "note: unknown account type %q, treated as asset\n", acctType)
			}

			acct, err := env.accounts.Add(model.Account{
				Name:         args[0],
				Type:         acctType,
				Currency:     currency,
				Institution:  institution,
				MaskedNumber: masked,
				Counterparty: counterparty,
				Notes:        notes,
			})
			if err != nil {
				return err
			}

			if err := env.save(fmt.Sprintf("account add: %d %s", acct.ID, acct.Name)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added account %d: %s (%s, %s)\n",
				acct.ID, acct.Name, acct.Type, acct.AccountingType())
			return nil
		},
	}

	cmd.Flags().StringVar(&acctType, "type", "", "account type, e.g. savings, credit_card, receivable (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (default: base currency)")
	cmd.Flags().StringVar(&institution, "institution", "", "bank or institution name")
	cmd.Flags().StringVar(&masked, "masked-number", "", "masked account number, e.g. XX1234")
	cmd.Flags().StringVar(&counterparty, "counterparty", "", "counterparty for loan accounts")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")

	return cmd
}

func newAccountListCommand(dir *string) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(*dir)
			if err != nil {
				return err
			}

			accts := env.accounts.Active()
			if all {
				accts = env.accounts.All()
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tCLASS\tBALANCE\tCURRENCY\tACTIVE")
			for _, a := range accts {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%t\n",
					a.ID, a.Name, a.Type, a.AccountingType(), a.Balance.StringFixed(2), a.Currency, a.Active)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include deactivated accounts")

	return cmd
}

func newAccountDeactivateCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate an account (history is preserved)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, id, err := openWithAccountID(*dir, args[0])
			if err != nil {
				return err
			}
			if err := env.accounts.Deactivate(id); err != nil {
				return err
			}
			if err := env.save(fmt.Sprintf("account deactivate: %d", id)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deactivated account %d\n", id)
			return nil
		},
	}
}

func newAccountReactivateCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reactivate <id>",
		Short: "Reactivate an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, id, err := openWithAccountID(*dir, args[0])
			if err != nil {
				return err
			}
			if err := env.accounts.Reactivate(id); err != nil {
				return err
			}
			if err := env.save(fmt.Sprintf("account reactivate: %d", id)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reactivated account %d\n", id)
			return nil
		},
	}
}

func openWithAccountID(dir, arg string) (*ledgerEnv, int, error) {
	env, err := openLedger(dir)
	if err != nil {
		return nil, 0, err
	}
	id, err := strconv.Atoi(arg)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid account ID %q", arg)
	}
	return env, id, nil
}
