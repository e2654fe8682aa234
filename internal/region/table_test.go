package region

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDirectory = `
[fifo.events]
offset = 0
size   = 384

[fifo.telemetry]
offset = 384
size   = 384
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.ini")
	require.NoError(t, os.WriteFile(path, []byte(sampleDirectory), 0644))
	return path
}

func TestLoadResolvesRegions(t *testing.T) {
	table, err := Load(writeSample(t), 128)
	require.NoError(t, err)

	events, err := table.Lookup("events")
	require.NoError(t, err)
	require.Equal(t, uint32(0), events.Offset)
	require.Equal(t, uint32(384), events.Size)

	telemetry, err := table.Lookup("telemetry")
	require.NoError(t, err)
	require.Equal(t, uint32(384), telemetry.Offset)
}

func TestLookupUnknownID(t *testing.T) {
	table, err := Load(writeSample(t), 128)
	require.NoError(t, err)

	_, err = table.Lookup("nope")
	require.Error(t, err)
}

func TestAcquireEnforcesSingleOpenHandle(t *testing.T) {
	table, err := Load(writeSample(t), 128)
	require.NoError(t, err)

	require.NoError(t, table.Acquire("events"))
	require.Error(t, table.Acquire("events"))

	table.Release("events")
	require.NoError(t, table.Acquire("events"))
}

func TestLoadRejectsOverlap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.ini")
	const overlapping = `
[fifo.a]
offset = 0
size   = 256

[fifo.b]
offset = 128
size   = 128
`
	require.NoError(t, os.WriteFile(path, []byte(overlapping), 0644))

	_, err := Load(path, 128)
	require.Error(t, err)
}

func TestLoadRejectsUnalignedRegion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.ini")
	const unaligned = `
[fifo.a]
offset = 0
size   = 200
`
	require.NoError(t, os.WriteFile(path, []byte(unaligned), 0644))

	_, err := Load(path, 128)
	require.Error(t, err)
}
