package nilfs2

import "encoding/binary"

// datBuilder wraps the DAT's block-grouped storage. Entry index is the
// virtual block number (VBN); VBN 0 is permanently reserved and never
// resolves to a physical block.
type datBuilder struct {
	*blockGroupedFile
	nextVbn int64
}

func newDatBuilder(pool *bufferPool, startBlock, nblocks, blockSize int64) (*datBuilder, error) {
	f := newBlockGroupedFile(pool, startBlock, nblocks, blockSize, datEntryBytes)
	if err := f.reserve(0); err != nil {
		return nil, err
	}
	return &datBuilder{blockGroupedFile: f, nextVbn: 1}, nil
}

// datEntry is the {blocknr, start_cno, end_cno} tuple for one VBN.
type datEntry struct {
	Blocknr  uint64
	StartCno uint64
	EndCno   uint64
}

func (e *datEntry) toBytes() []byte {
	b := make([]byte, datEntryBytes)
	binary.LittleEndian.PutUint64(b[0x00:], e.Blocknr)
	binary.LittleEndian.PutUint64(b[0x08:], e.StartCno)
	binary.LittleEndian.PutUint64(b[0x10:], e.EndCno)
	return b
}

// assignVbn hands out the next free VBN, records its DAT entry pointing
// at physicalBlock, and marks the VBN used in the bitmap. Every live VBN
// in the initial image gets start=1 (first checkpoint), end=CnoMax.
func (b *datBuilder) assignVbn(pool *bufferPool, physicalBlock int64) (uint64, error) {
	vbn := b.nextVbn
	b.nextVbn++
	if err := b.use(int(vbn)); err != nil {
		return 0, err
	}
	entry := datEntry{Blocknr: uint64(physicalBlock), StartCno: firstCno, EndCno: CnoMax}
	if err := b.writeEntry(pool, vbn, entry.toBytes()); err != nil {
		return 0, err
	}
	return uint64(vbn), nil
}
