package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flashfifo/nor/logger"
)

func addWriteCommand(parent *cobra.Command) {
	writeCmd := &cobra.Command{
		Use:   "write <payload>",
		Short: "Append one chunk to the region",
		Args:  cobra.ExactArgs(1),
		RunE:  runWrite,
	}
	parent.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	h, port, err := openHandle()
	if err != nil {
		return err
	}
	defer closeHandle(h, port)

	payload := []byte(args[0])
	n := h.Write(payload)
	if n == 0 {
		logger.Warnf("write rejected: precondition failed or tail parked awaiting erase")
		cmd.Println("write failed: 0 bytes accepted")
		return nil
	}
	cmd.Printf("wrote %d bytes\n", n)
	return nil
}
