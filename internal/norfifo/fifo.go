// Package norfifo implements the persistent, power-fail-tolerant FIFO
// described by the on-flash layout in its companion design notes: a ring
// buffer of size-prefixed chunks spanning fixed erase pages of a
// flashport.Port, recovered from cold boot by a three-phase scan and
// advanced by a single cursor engine shared between reads and consumes.
package norfifo

import (
	"github.com/pkg/errors"

	"github.com/flashfifo/nor/internal/flashport"
	"github.com/flashfifo/nor/internal/region"
)

// Directory is the open/close lifecycle manager for every FIFO on a single
// port: spec.md §5's "shared resource," restricted to the open/close
// lifecycle of at most one handle per id.
type Directory struct {
	port   flashport.Port
	table  *region.Table
}

// NewDirectory binds a region table to the flash port it describes.
func NewDirectory(port flashport.Port, table *region.Table) *Directory {
	return &Directory{port: port, table: table}
}

// Open resolves id to its region, enforces the single-open-handle rule, and
// runs recovery. It returns ErrTooManyPages if the region spans more than 8
// pages (the page-counter cycle has only 8 legal stamps, spec.md §9).
func (d *Directory) Open(id string, pageSize int) (*Handle, error) {
	r, err := d.table.Lookup(id)
	if err != nil {
		return nil, newOpError("Open", errors.Wrapf(ErrUnknownFIFO, "resolving region %q", id))
	}

	if r.Size%uint32(pageSize) != 0 {
		return nil, newOpError("Open", ErrBadRegionSize)
	}
	if int(r.Size)/pageSize > 8 {
		return nil, newOpError("Open", ErrTooManyPages)
	}
	if pageSize < chunkHeaderLen+2 {
		return nil, newOpError("Open", ErrBadPageSize)
	}

	if err := d.table.Acquire(id); err != nil {
		return nil, newOpError("Open", errors.Wrap(ErrAlreadyOpen, "acquiring handle slot"))
	}

	h := &Handle{
		id:       id,
		port:     d.port,
		start:    r.Offset,
		fileSize: r.Size,
		pageSize: pageSize,
	}
	h.recover()

	return h, nil
}

// Close releases id's handle slot. Handles carry no buffered state to flush
// (spec.md §4.4's writes are already committed synchronously), so Close is
// bookkeeping only.
func (d *Directory) Close(id string, h *Handle) {
	h.Sync()
	d.table.Release(id)
}

// FormatChip erases the entire flash port, corresponding to the `format()`
// operation in spec.md §6's interface table. It is distinct from erasing a
// single FIFO's region.
func FormatChip(port flashport.Port) error {
	size := port.Size()
	return port.Erase(0, int(size))
}

// TruncateRegion erases exactly one FIFO's region, discarding all of its
// chunks without touching any other FIFO sharing the chip. This is the
// `file_truncate` operation from original_source/FIFO.h that spec.md's own
// interface table omits; a caller must not hold an open handle on id while
// calling this.
func TruncateRegion(port flashport.Port, r region.Region) error {
	return port.Erase(r.Offset, int(r.Size))
}
