package cmd

import (
	"github.com/spf13/cobra"
)

var consumeLen int

func addConsumeCommand(parent *cobra.Command) {
	consumeCmd := &cobra.Command{
		Use:   "consume",
		Short: "Reclaim up to n bytes of whole chunks from the head of the region",
		Args:  cobra.NoArgs,
		RunE:  runConsume,
	}
	consumeCmd.Flags().IntVar(&consumeLen, "n", 64, "maximum bytes to consume")
	parent.AddCommand(consumeCmd)
}

func runConsume(cmd *cobra.Command, args []string) error {
	h, port, err := openHandle()
	if err != nil {
		return err
	}
	defer closeHandle(h, port)

	released := h.Consume(consumeLen)
	cmd.Printf("released %d bytes\n", released)
	return nil
}
