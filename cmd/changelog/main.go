package main

import (
	"os"

	"github.com/pfaciana/conventional-commits-changelog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
