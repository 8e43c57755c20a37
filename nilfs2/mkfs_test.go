package nilfs2

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nilfs2/gonilfs2/internal/bytesdump"
)

func testOptions() Options {
	return Options{
		BlockSize:        4096,
		BlocksPerSegment: 2048,
		ReservedPercent:  5,
		DeviceSize:       256 << 20,
		Label:            "testvol",
		Ctime:            1700000000,
	}
}

func assembleAndFinalize(t *testing.T) *Formatter {
	t.Helper()
	f, err := Assemble(testOptions())
	require.NoError(t, err)
	require.NoError(t, f.Finalize())
	return f
}

func TestSuperblockRoundtrip(t *testing.T) {
	f := assembleAndFinalize(t)
	raw := f.SuperblockBytes()

	sb, err := superblockFromBytes(raw)
	require.NoError(t, err)
	require.Equal(t, f.sb.Nsegments, sb.Nsegments)
	require.Equal(t, f.sb.FirstDataBlock, sb.FirstDataBlock)
	require.Equal(t, f.sb.LastCno, sb.LastCno)
	require.Equal(t, uint64(1), sb.LastCno)

	reserialized := sb.toBytes()
	if different, dump := bytesdump.DumpByteSlicesWithDiffs(reserialized, raw, 32, false, true, true); different {
		t.Errorf("superblock.toBytes() after round-trip mismatched, actual then expected\n%s", dump)
	}
}

func TestSuperRootChecksum(t *testing.T) {
	f := assembleAndFinalize(t)
	srBlockNr := f.firstPsegBlock + f.nblocksInPseg - 1
	buf, err := f.pool.get(srBlockNr)
	require.NoError(t, err)

	_, err = superRootFromBytes(buf, f.sb.CRCSeed)
	require.NoError(t, err)
}

func TestSummaryChecksum(t *testing.T) {
	f := assembleAndFinalize(t)
	headerBlock, err := f.pool.get(f.firstPsegBlock)
	require.NoError(t, err)

	region, err := readRange(f.pool, f.firstPsegBlock, 8, int64(f.ss.Sumbytes)-8)
	require.NoError(t, err)
	want := crc32.Update(f.sb.CRCSeed, crc32.IEEETable, region)
	require.Equal(t, want, binary.LittleEndian.Uint32(headerBlock[0x04:]))
}

func TestSegmentDataChecksum(t *testing.T) {
	f := assembleAndFinalize(t)
	headerBlock, err := f.pool.get(f.firstPsegBlock)
	require.NoError(t, err)

	bs := f.Layout.BlockSize
	region, err := readRange(f.pool, f.firstPsegBlock, 8, f.nblocksInPseg*bs-8)
	require.NoError(t, err)
	want := crc32.Update(f.sb.CRCSeed, crc32.IEEETable, region)
	require.Equal(t, want, binary.LittleEndian.Uint32(headerBlock[0x00:]))
}

func TestFreeBlocksCount(t *testing.T) {
	f := assembleAndFinalize(t)
	want := uint64(f.Layout.BlocksPerSegment) * uint64(f.Layout.Nsegments-1)
	require.Equal(t, want, f.sb.FreeBlocksCount)
}

func TestReservationInvariant(t *testing.T) {
	f := assembleAndFinalize(t)
	minSegs := f.Layout.ReservedSegments + minUserSegments
	require.GreaterOrEqual(t, f.Layout.Nsegments, minSegs)
	require.GreaterOrEqual(t, f.Layout.ReservedSegments, int64(minReservedSegments))
}

func TestDatEntriesBijectWithAssignedVbns(t *testing.T) {
	f, err := Assemble(testOptions())
	require.NoError(t, err)

	// Every VBN assigned during assembly (1..nextVbn-1) must have exactly
	// one DAT entry, with the initial image's start/end CNO convention.
	for vbn := int64(1); vbn < f.dat.nextVbn; vbn++ {
		blk, off := f.dat.entryBlockAndOffset(vbn)
		buf, err := f.pool.get(blk)
		require.NoError(t, err)
		rec := buf[off : off+datEntryBytes]
		startCno := binary.LittleEndian.Uint64(rec[0x08:])
		endCno := binary.LittleEndian.Uint64(rec[0x10:])
		require.Equal(t, firstCno, startCno)
		require.Equal(t, CnoMax, endCno)
	}
}

func TestInodeBitmapReservesUpToUserIno(t *testing.T) {
	f, err := Assemble(testOptions())
	require.NoError(t, err)

	for i := uint64(0); i < UserIno; i++ {
		set, err := f.ifile.bitmap.IsSet(int(i))
		require.NoError(t, err)
		require.True(t, set, "inode %d should be reserved", i)
	}
}
