// Command flashfifoctl drives and inspects a flashfifo region from a shell:
// write/read/consume/stat/format against a file-backed flash chip, plus
// snapshot export/import and an optional MySQL stats sink. None of this is
// part of the FIFO core itself.
package main

import (
	"os"

	"github.com/flashfifo/nor/cmd/flashfifoctl/internal/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
