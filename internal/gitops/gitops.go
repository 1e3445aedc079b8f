// Package gitops version-controls the ledger data directory. Every
// mutation can be committed so the git history doubles as a second
// audit trail.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Init initializes a git repository at dir.
func Init(dir string) error {
	_, err := run(dir, "init")
	return err
}

// IsRepo reports whether dir is a git repository root.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// HasChanges reports whether dir has uncommitted changes.
func HasChanges(dir string) (bool, error) {
	out, err := run(dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// CommitAll stages everything and commits with the given author.
// Returns the short commit hash.
func CommitAll(dir, message, authorName, authorEmail string) (string, error) {
	if _, err := run(dir, "add", "-A"); err != nil {
		return "", err
	}

	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)
	if _, err := run(dir, "commit", "-m", message, "--author", author); err != nil {
		return "", err
	}

	return run(dir, "rev-parse", "--short", "HEAD")
}

// Log returns the last n commit subjects, newest first.
func Log(dir string, n int) ([]string, error) {
	out, err := run(dir, "log", "--format=%s", fmt.Sprintf("-%d", n))
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
