package nilfs2_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nilfs2/gonilfs2/nilfs2"
	"github.com/nilfs2/gonilfs2/testhelper"
)

func TestWriteCommitsSuperblockLast(t *testing.T) {
	f, err := nilfs2.Assemble(nilfs2.Options{
		BlockSize:        4096,
		BlocksPerSegment: 2048,
		ReservedPercent:  5,
		DeviceSize:       256 << 20,
		Label:            "testvol",
		Ctime:            1700000000,
	})
	require.NoError(t, err)
	require.NoError(t, f.Finalize())

	store := testhelper.NewFakeStorage()
	require.NoError(t, f.Write(store))

	require.NotEmpty(t, store.Writes)
	last := store.Writes[len(store.Writes)-1]
	require.Equal(t, int64(nilfs2.SBOffsetBytes), last.Offset)
	for _, w := range store.Writes[:len(store.Writes)-1] {
		require.NotEqual(t, int64(nilfs2.SBOffsetBytes), w.Offset)
	}
}

func TestWriteStopsBeforeSuperblockOnSegmentWriteFailure(t *testing.T) {
	f, err := nilfs2.Assemble(nilfs2.Options{
		BlockSize:        4096,
		BlocksPerSegment: 2048,
		ReservedPercent:  5,
		DeviceSize:       256 << 20,
		Label:            "testvol",
		Ctime:            1700000000,
	})
	require.NoError(t, err)
	require.NoError(t, f.Finalize())

	store := testhelper.NewFakeStorage()
	store.FailAfter = 1
	err = f.Write(store)
	require.Error(t, err)

	for _, w := range store.Writes {
		require.NotEqual(t, int64(nilfs2.SBOffsetBytes), w.Offset)
	}
}
