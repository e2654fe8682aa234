package cmd

import (
	"github.com/juju/errors"

	"github.com/flashfifo/nor/internal/flashport"
	"github.com/flashfifo/nor/internal/norfifo"
	"github.com/flashfifo/nor/internal/region"
)

// openHandle opens flashPath as a single-region FIFO spanning the whole
// file — flashfifoctl operates on one region per invocation, unlike
// internal/region's multi-id directory, which a longer-running service
// would use instead.
func openHandle() (*norfifo.Handle, flashport.Port, error) {
	port, err := flashport.OpenFilePort(flashPath, fileSize, pageSize)
	if err != nil {
		return nil, nil, errors.Annotate(err, "opening flash file")
	}

	dir := norfifo.NewDirectory(port, region.NewSingleTable("region", uint32(fileSize)))
	h, err := dir.Open("region", pageSize)
	if err != nil {
		port.Close()
		return nil, nil, errors.Annotate(err, "opening fifo region")
	}
	return h, port, nil
}

func closeHandle(h *norfifo.Handle, port flashport.Port) {
	h.Sync()
	if closer, ok := port.(*flashport.FilePort); ok {
		closer.Close()
	}
}
