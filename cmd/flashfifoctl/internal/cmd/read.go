package cmd

import (
	"github.com/spf13/cobra"
)

var readLen int

func addReadCommand(parent *cobra.Command) {
	readCmd := &cobra.Command{
		Use:   "read",
		Short: "Read bytes from the region non-destructively",
		Args:  cobra.NoArgs,
		RunE:  runRead,
	}
	readCmd.Flags().IntVar(&readLen, "n", 64, "maximum bytes to read")
	parent.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	h, port, err := openHandle()
	if err != nil {
		return err
	}
	defer closeHandle(h, port)

	buf := make([]byte, readLen)
	n := h.Read(buf)
	cmd.Printf("read %d bytes: %q\n", n, buf[:n])
	return nil
}
