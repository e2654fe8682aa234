package flashport

import (
	"os"

	"github.com/flashfifo/nor/logger"
)

// FilePort backs a flash region with a real file, opened and extended the
// way util/fileutil.go's CreateFileBySize/WriteFileBySeekStart do — Seek
// plus ReadAt/WriteAt. A plain file has no AND-only write hardware, so Write
// reads the existing bytes and ANDs them with the incoming bytes before
// writing back, preserving the "bits only clear" contract any Port must
// honor.
type FilePort struct {
	f        *os.File
	size     uint32
	pageSize int
}

// OpenFilePort opens (creating if necessary) a file of exactly size bytes at
// path to back a flash region. A newly created file is initialized all-0xFF,
// matching an erased chip.
func OpenFilePort(path string, size, pageSize int) (*FilePort, error) {
	_, statErr := os.Stat(path)
	existed := statErr == nil

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}

	fp := &FilePort{f: f, size: uint32(size), pageSize: pageSize}

	if !existed {
		blank := make([]byte, size)
		for i := range blank {
			blank[i] = 0xFF
		}
		if _, err := f.WriteAt(blank, 0); err != nil {
			f.Close()
			return nil, err
		}
	}

	return fp, nil
}

func (p *FilePort) Size() uint32 { return p.size }

func (p *FilePort) Close() error {
	return p.f.Close()
}

func (p *FilePort) Read(addr uint32, buf []byte, n int) (int, error) {
	return p.f.ReadAt(buf[:n], int64(addr))
}

func (p *FilePort) Write(addr uint32, buf []byte, n int) (int, error) {
	existing := make([]byte, n)
	if _, err := p.f.ReadAt(existing, int64(addr)); err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		existing[i] &= buf[i]
	}
	if _, err := p.f.WriteAt(existing, int64(addr)); err != nil {
		return 0, err
	}
	return n, nil
}

func (p *FilePort) Erase(addr uint32, length int) error {
	blank := make([]byte, length)
	for i := range blank {
		blank[i] = 0xFF
	}
	if _, err := p.f.WriteAt(blank, int64(addr)); err != nil {
		return err
	}
	logger.Debugf("flashport: erased %d bytes at %d", length, addr)
	return nil
}
