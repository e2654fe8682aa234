package cmd

import (
	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/flashfifo/nor/internal/flashport"
	"github.com/flashfifo/nor/internal/snapshot"
)

var (
	snapshotPath  string
	snapshotCodec string
)

func addSnapshotCommands(parent *cobra.Command) {
	snapCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or import a raw, compressed, checksummed copy of the region",
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the region's raw bytes to a snapshot file",
		Args:  cobra.NoArgs,
		RunE:  runSnapshotExport,
	}
	exportCmd.Flags().StringVar(&snapshotPath, "out", "region.snap", "snapshot output path")
	exportCmd.Flags().StringVar(&snapshotCodec, "codec", "snappy", "snappy, lz4, or none")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Restore a region's raw bytes from a snapshot file",
		Args:  cobra.NoArgs,
		RunE:  runSnapshotImport,
	}
	importCmd.Flags().StringVar(&snapshotPath, "in", "region.snap", "snapshot input path")

	snapCmd.AddCommand(exportCmd, importCmd)
	parent.AddCommand(snapCmd)
}

func runSnapshotExport(cmd *cobra.Command, args []string) error {
	port, err := flashport.OpenFilePort(flashPath, fileSize, pageSize)
	if err != nil {
		return errors.Annotate(err, "opening flash file")
	}
	defer port.Close()

	if err := snapshot.ExportFile(snapshotPath, port, 0, uint32(fileSize), snapshot.Codec(snapshotCodec)); err != nil {
		return errors.Annotate(err, "exporting snapshot")
	}
	cmd.Printf("exported %d bytes to %s\n", fileSize, snapshotPath)
	return nil
}

func runSnapshotImport(cmd *cobra.Command, args []string) error {
	port, err := flashport.OpenFilePort(flashPath, fileSize, pageSize)
	if err != nil {
		return errors.Annotate(err, "opening flash file")
	}
	defer port.Close()

	if err := snapshot.ImportFile(snapshotPath, port, 0); err != nil {
		return errors.Annotate(err, "importing snapshot")
	}
	cmd.Printf("imported %s into %s\n", snapshotPath, flashPath)
	return nil
}
