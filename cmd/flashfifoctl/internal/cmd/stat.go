package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flashfifo/nor/util"
)

var statVerbose bool

func addStatCommand(parent *cobra.Command) {
	statCmd := &cobra.Command{
		Use:   "stat",
		Short: "Print cursor positions and free space for the region",
		Args:  cobra.NoArgs,
		RunE:  runStat,
	}
	statCmd.Flags().BoolVarP(&statVerbose, "verbose", "v", false, "also dump each page's counter byte in binary")
	parent.AddCommand(statCmd)
}

func runStat(cmd *cobra.Command, args []string) error {
	h, port, err := openHandle()
	if err != nil {
		return err
	}
	defer closeHandle(h, port)

	cmd.Printf("size:                  %d\n", h.Size())
	cmd.Printf("free_space:            %d\n", h.FreeSpace())
	cmd.Printf("write_offset:          %d\n", h.WriteOffset())
	cmd.Printf("raw_read_chunk_start:  %d\n", h.RawReadChunkStart())
	cmd.Printf("raw_read_chunk_offset: %d\n", h.RawReadChunkOffset())
	cmd.Printf("destructive_read_off:  %d\n", h.DestructiveReadOffset())

	if statVerbose {
		for i, counter := range h.PageCounters() {
			cmd.Printf("page[%d].counter:      %s\n", i, util.ToBinaryString(counter))
		}
	}
	return nil
}
