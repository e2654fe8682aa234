package flashport

import (
	"path/filepath"
	"testing"

	"github.com/smartystreets/assertions"
)

func TestFilePortWriteIsANDOnly(t *testing.T) {
	dir := t.TempDir()
	p, err := OpenFilePort(filepath.Join(dir, "region.bin"), 256, 128)
	assertions.ShouldBeNil(err)
	defer p.Close()

	buf := make([]byte, 4)
	_, err = p.Read(0, buf, 4)
	assertions.ShouldBeNil(err)
	assertions.ShouldResemble(buf, []byte{0xFF, 0xFF, 0xFF, 0xFF})

	n, err := p.Write(0, []byte{0x0F, 0xF0, 0xFF, 0x00}, 4)
	assertions.ShouldBeNil(err)
	assertions.ShouldEqual(n, 4)

	_, err = p.Read(0, buf, 4)
	assertions.ShouldBeNil(err)
	assertions.ShouldResemble(buf, []byte{0x0F, 0xF0, 0xFF, 0x00})

	// A second write can only clear further bits, never set any back.
	_, err = p.Write(0, []byte{0xFF, 0xFF, 0xFF, 0xFF}, 4)
	assertions.ShouldBeNil(err)
	_, err = p.Read(0, buf, 4)
	assertions.ShouldBeNil(err)
	assertions.ShouldResemble(buf, []byte{0x0F, 0xF0, 0xFF, 0x00})
}

func TestFilePortErase(t *testing.T) {
	dir := t.TempDir()
	p, err := OpenFilePort(filepath.Join(dir, "region.bin"), 256, 128)
	assertions.ShouldBeNil(err)
	defer p.Close()

	p.Write(0, []byte{0x00, 0x00}, 2)
	if err := p.Erase(0, 128); err != nil {
		t.Fatalf("erase: %v", err)
	}

	buf := make([]byte, 2)
	p.Read(0, buf, 2)
	assertions.ShouldResemble(buf, []byte{0xFF, 0xFF})
}

func TestFilePortReopenPreservesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "region.bin")

	p1, err := OpenFilePort(path, 256, 128)
	assertions.ShouldBeNil(err)
	p1.Write(10, []byte{0xAA}, 1)
	p1.Close()

	p2, err := OpenFilePort(path, 256, 128)
	assertions.ShouldBeNil(err)
	defer p2.Close()

	buf := make([]byte, 1)
	p2.Read(10, buf, 1)
	assertions.ShouldResemble(buf, []byte{0xAA})
}
