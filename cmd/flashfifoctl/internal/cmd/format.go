package cmd

import (
	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/flashfifo/nor/internal/flashport"
	"github.com/flashfifo/nor/internal/norfifo"
)

func addFormatCommand(parent *cobra.Command) {
	formatCmd := &cobra.Command{
		Use:   "format",
		Short: "Erase the entire backing file, discarding every region's data",
		Args:  cobra.NoArgs,
		RunE:  runFormat,
	}
	parent.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	port, err := flashport.OpenFilePort(flashPath, fileSize, pageSize)
	if err != nil {
		return errors.Annotate(err, "opening flash file")
	}
	defer port.Close()

	if err := norfifo.FormatChip(port); err != nil {
		return errors.Annotate(err, "formatting chip")
	}
	cmd.Println("chip erased")
	return nil
}
