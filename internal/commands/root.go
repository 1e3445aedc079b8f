// Package commands wires the CLI: init, account, tx, import, report,
// and check subcommands over the ledger data directory.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerly-dev/ledgerly/internal/accounts"
	"github.com/ledgerly-dev/ledgerly/internal/buildinfo"
	"github.com/ledgerly-dev/ledgerly/internal/config"
	"github.com/ledgerly-dev/ledgerly/internal/gitops"
	"github.com/ledgerly-dev/ledgerly/internal/journal"
)

const configFile = "ledgerly.yaml"

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	var dir string

	rootCmd := &cobra.Command{
		Use:     "ledgerly",
		Short:   "Plain-text personal finance with double-entry bookkeeping",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dir, "dir", ".", "ledger data directory")

	rootCmd.AddCommand(newInitCommand(&dir))
	rootCmd.AddCommand(newAccountCommand(&dir))
	rootCmd.AddCommand(newTxCommand(&dir))
	rootCmd.AddCommand(newImportCommand(&dir))
	rootCmd.AddCommand(newReportCommand(&dir))
	rootCmd.AddCommand(newCheckCommand(&dir))

	return rootCmd
}

// ledgerEnv bundles the services a subcommand needs.
type ledgerEnv struct {
	dir      string
	cfg      *config.Config
	accounts *accounts.Service
	journal  *journal.Service
}

// openLedger loads config and accounts from an initialized directory.
func openLedger(dir string) (*ledgerEnv, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	if err := config.LoadEnv(filepath.Join(absDir, ".env")); err != nil {
		return nil, err
	}

	cfg, err := config.Load(filepath.Join(absDir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no %s in %s (run ledgerly init first)", configFile, absDir)
		}
		return nil, err
	}

	accts, err := accounts.Load(absDir)
	if err != nil {
		return nil, err
	}

	return &ledgerEnv{
		dir:      absDir,
		cfg:      cfg,
		accounts: accts,
		journal:  journal.NewService(absDir, accts),
	}, nil
}

// save persists the account registry and, when auto-commit is on,
// records a git commit for the mutation.
func (e *ledgerEnv) save(commitMessage string) error {
	if err := e.accounts.Save(e.dir); err != nil {
		return err
	}
	return e.commit(commitMessage)
}

func (e *ledgerEnv) commit(message string) error {
	if !e.cfg.Git.AutoCommit || !gitops.IsRepo(e.dir) {
		return nil
	}
	changed, err := gitops.HasChanges(e.dir)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	_, err = gitops.CommitAll(e.dir, message, e.cfg.Git.AuthorName, e.cfg.Git.AuthorEmail)
	return err
}
