// Package region resolves a FIFO id to a byte range within a flash chip and
// enforces the at-most-one-open-handle-per-id rule spec.md §3/§5 describe.
// It is the "external addressing scheme" spec.md §1 calls multi-file
// partitioning — out of the core's scope, but a complete repo needs
// something that plays that role end to end.
package region

import (
	"sync"

	"github.com/juju/errors"
	"gopkg.in/ini.v1"
)

// Region describes one FIFO's slice of the chip.
type Region struct {
	ID     string
	Offset uint32
	Size   uint32
}

// Table is a loaded directory of regions plus open-handle bookkeeping.
type Table struct {
	mu      sync.Mutex
	regions map[string]Region
	open    map[string]bool
}

// Load reads an INI file shaped like:
//
//	[fifo.events]
//	offset = 0
//	size   = 384
//
//	[fifo.telemetry]
//	offset = 384
//	size   = 384
//
// one section per FIFO id, following server/conf/config.go's
// section.GetKey convention, and validates every region is page-aligned and
// non-overlapping.
func Load(path string, pageSize uint32) (*Table, error) {
	raw, err := ini.Load(path)
	if err != nil {
		return nil, errors.Annotate(err, "region: loading directory file")
	}

	t := &Table{
		regions: make(map[string]Region),
		open:    make(map[string]bool),
	}

	for _, section := range raw.Sections() {
		name := section.Name()
		if len(name) < 6 || name[:5] != "fifo." {
			continue
		}
		id := name[5:]

		offsetKey, err := section.GetKey("offset")
		if err != nil {
			return nil, errors.Annotatef(err, "region: %s missing offset", name)
		}
		sizeKey, err := section.GetKey("size")
		if err != nil {
			return nil, errors.Annotatef(err, "region: %s missing size", name)
		}

		offset, err := offsetKey.Int()
		if err != nil {
			return nil, errors.Annotatef(err, "region: %s offset", name)
		}
		size, err := sizeKey.Int()
		if err != nil {
			return nil, errors.Annotatef(err, "region: %s size", name)
		}

		r := Region{ID: id, Offset: uint32(offset), Size: uint32(size)}
		if r.Offset%pageSize != 0 || r.Size%pageSize != 0 {
			return nil, errors.Errorf("region: %s is not page-aligned", name)
		}

		t.regions[id] = r
	}

	if err := t.checkOverlaps(); err != nil {
		return nil, err
	}

	return t, nil
}

// NewSingleTable builds an in-memory table holding exactly one region, for
// callers (like cmd/flashfifoctl) that operate on one FIFO at a time and
// have no directory file to load.
func NewSingleTable(id string, size uint32) *Table {
	return &Table{
		regions: map[string]Region{id: {ID: id, Offset: 0, Size: size}},
		open:    make(map[string]bool),
	}
}

func (t *Table) checkOverlaps() error {
	for _, a := range t.regions {
		for _, b := range t.regions {
			if a.ID == b.ID {
				continue
			}
			if a.Offset < b.Offset+b.Size && b.Offset < a.Offset+a.Size {
				return errors.Errorf("region: %s and %s overlap", a.ID, b.ID)
			}
		}
	}
	return nil
}

// Lookup resolves a FIFO id to its region, erroring if unknown.
func (t *Table) Lookup(id string) (Region, error) {
	r, ok := t.regions[id]
	if !ok {
		return Region{}, errors.NotFoundf("fifo %q", id)
	}
	return r, nil
}

// Acquire marks id as having an open handle, failing if one is already
// open — the single-open-handle rule of spec.md §5.
func (t *Table) Acquire(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.open[id] {
		return errors.AlreadyExistsf("handle for fifo %q", id)
	}
	t.open[id] = true
	return nil
}

// Release frees id's open-handle slot.
func (t *Table) Release(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.open, id)
}

// IDs returns every region id in the table, in no particular order.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.regions))
	for id := range t.regions {
		ids = append(ids, id)
	}
	return ids
}
