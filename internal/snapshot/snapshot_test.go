package snapshot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashfifo/nor/internal/flashport"
)

func TestExportImportRoundTripSnappy(t *testing.T) {
	port := flashport.NewMockPort(256, 128)
	port.Write(0, []byte("hello flashfifo region"), len("hello flashfifo region"))

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, port, 0, 256, CodecSnappy))

	restored := flashport.NewMockPort(256, 128)
	require.NoError(t, Import(&buf, restored, 0))

	want := make([]byte, 256)
	port.Read(0, want, 256)
	got := make([]byte, 256)
	restored.Read(0, got, 256)
	require.Equal(t, want, got)
}

func TestExportImportRoundTripLZ4(t *testing.T) {
	port := flashport.NewMockPort(256, 128)
	port.Write(10, []byte("lz4 codec path"), len("lz4 codec path"))

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, port, 0, 256, CodecLZ4))

	restored := flashport.NewMockPort(256, 128)
	require.NoError(t, Import(&buf, restored, 0))

	want := make([]byte, 256)
	port.Read(0, want, 256)
	got := make([]byte, 256)
	restored.Read(0, got, 256)
	require.Equal(t, want, got)
}

func TestImportRejectsChecksumMismatch(t *testing.T) {
	port := flashport.NewMockPort(128, 128)
	port.Write(0, []byte("corruptme"), len("corruptme"))

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, port, 0, 128, CodecNone))

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xFF

	restored := flashport.NewMockPort(128, 128)
	err := Import(bytes.NewReader(corrupted), restored, 0)
	require.Error(t, err)
}

func TestImportRejectsBadMagic(t *testing.T) {
	restored := flashport.NewMockPort(128, 128)
	err := Import(bytes.NewReader([]byte("not a snapshot at all")), restored, 0)
	require.Error(t, err)
}
