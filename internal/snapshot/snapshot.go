// Package snapshot dumps a region's raw bytes to a file for offline
// inspection and restores them, entirely outside the wire layout spec.md
// §6 fixes for the core: a snapshot file is never read by norfifo itself.
package snapshot

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"

	"github.com/flashfifo/nor/internal/flashport"
	"github.com/flashfifo/nor/util"
)

// Codec names the compressor applied to a region's raw bytes before they
// hit disk.
type Codec string

const (
	CodecSnappy Codec = "snappy"
	CodecLZ4    Codec = "lz4"
	CodecNone   Codec = "none"
)

// magic identifies a flashfifo snapshot file; version allows the header to
// grow without breaking older readers outright.
const (
	magic   = "FFSNAP1\x00"
	version = 1
)

// header is written once at the front of every snapshot file.
type header struct {
	Codec    Codec
	Size     uint32
	Checksum uint64
}

// Export reads size bytes at offset from port, compresses them with codec,
// and writes a checksummed snapshot to w.
func Export(w io.Writer, port flashport.Port, offset, size uint32, codec Codec) error {
	raw := make([]byte, size)
	if _, err := port.Read(offset, raw, int(size)); err != nil {
		return errors.Wrap(err, "snapshot: reading region")
	}

	sum := checksum(raw)

	if _, err := io.WriteString(w, magic); err != nil {
		return errors.Wrap(err, "snapshot: writing magic")
	}
	if err := binary.Write(w, binary.BigEndian, uint32(version)); err != nil {
		return errors.Wrap(err, "snapshot: writing version")
	}
	if err := writeString(w, string(codec)); err != nil {
		return errors.Wrap(err, "snapshot: writing codec")
	}
	if err := binary.Write(w, binary.BigEndian, size); err != nil {
		return errors.Wrap(err, "snapshot: writing size")
	}
	if err := binary.Write(w, binary.BigEndian, sum); err != nil {
		return errors.Wrap(err, "snapshot: writing checksum")
	}

	compressed, err := compress(codec, raw)
	if err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(compressed))); err != nil {
		return errors.Wrap(err, "snapshot: writing payload length")
	}
	if _, err := w.Write(compressed); err != nil {
		return errors.Wrap(err, "snapshot: writing payload")
	}
	return nil
}

// Import reads a snapshot produced by Export and writes its decompressed
// bytes back into port at offset, verifying the stored checksum first.
// Import does not check port's size against the snapshot's recorded size;
// the caller is expected to have opened a region of matching size.
func Import(r io.Reader, port flashport.Port, offset uint32) error {
	var gotMagic [8]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return errors.Wrap(err, "snapshot: reading magic")
	}
	if string(gotMagic[:]) != magic {
		return errors.New("snapshot: bad magic, not a flashfifo snapshot")
	}

	var gotVersion uint32
	if err := binary.Read(r, binary.BigEndian, &gotVersion); err != nil {
		return errors.Wrap(err, "snapshot: reading version")
	}
	if gotVersion != version {
		return errors.Errorf("snapshot: unsupported version %d", gotVersion)
	}

	codecName, err := readString(r)
	if err != nil {
		return errors.Wrap(err, "snapshot: reading codec")
	}

	var size uint32
	if err := binary.Read(r, binary.BigEndian, &size); err != nil {
		return errors.Wrap(err, "snapshot: reading size")
	}
	var wantSum uint64
	if err := binary.Read(r, binary.BigEndian, &wantSum); err != nil {
		return errors.Wrap(err, "snapshot: reading checksum")
	}
	var payloadLen uint32
	if err := binary.Read(r, binary.BigEndian, &payloadLen); err != nil {
		return errors.Wrap(err, "snapshot: reading payload length")
	}

	compressed := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return errors.Wrap(err, "snapshot: reading payload")
	}

	raw, err := decompress(Codec(codecName), compressed, size)
	if err != nil {
		return err
	}

	if got := checksum(raw); got != wantSum {
		return errors.Errorf("snapshot: checksum mismatch, got %x want %x", got, wantSum)
	}

	_, err = port.Write(offset, raw, len(raw))
	if err != nil {
		return errors.Wrap(err, "snapshot: writing region")
	}
	return nil
}

func checksum(data []byte) uint64 {
	return util.HashCode(data)
}

func compress(codec Codec, raw []byte) ([]byte, error) {
	switch codec {
	case CodecSnappy:
		return snappy.Encode(nil, raw), nil
	case CodecLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		var c lz4.Compressor
		n, err := c.CompressBlock(raw, buf)
		if err != nil {
			return nil, errors.Wrap(err, "snapshot: lz4 compress")
		}
		return buf[:n], nil
	case CodecNone:
		return raw, nil
	default:
		return nil, errors.Errorf("snapshot: unknown codec %q", codec)
	}
}

func decompress(codec Codec, payload []byte, rawSize uint32) ([]byte, error) {
	switch codec {
	case CodecSnappy:
		out, err := snappy.Decode(nil, payload)
		if err != nil {
			return nil, errors.Wrap(err, "snapshot: snappy decompress")
		}
		return out, nil
	case CodecLZ4:
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, errors.Wrap(err, "snapshot: lz4 decompress")
		}
		return out[:n], nil
	case CodecNone:
		return payload, nil
	default:
		return nil, errors.Errorf("snapshot: unknown codec %q", codec)
	}
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ExportFile and ImportFile are convenience wrappers around Export/Import
// for the CLI's snapshot subcommands.
func ExportFile(path string, port flashport.Port, offset, size uint32, codec Codec) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "snapshot: creating output file")
	}
	defer f.Close()
	return Export(f, port, offset, size, codec)
}

func ImportFile(path string, port flashport.Port, offset uint32) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "snapshot: opening input file")
	}
	defer f.Close()
	return Import(f, port, offset)
}
