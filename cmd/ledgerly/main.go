package main

import (
	"os"

	"github.com/ledgerly-dev/ledgerly/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
