package nilfs2

import (
	"encoding/binary"
	"fmt"

	"github.com/nilfs2/gonilfs2/util/bitmap"
)

// blockGroupedFile is the shared builder for the two metadata files laid
// out as (group descriptor, allocation bitmap, entries): the inode file
// and the DAT. Only a single group is ever needed for an initial image
// (nrInitialEntries is checked against one group's capacity by
// countBlockgroupedFileBlocks), which keeps this builder simple: block 0
// of the file is the group descriptor, block 1 is the bitmap, and the
// remaining blocks hold fixed-size entries packed sequentially.
type blockGroupedFile struct {
	startBlock int64 // first physical block of this file, within the pool
	blockSize  int64
	entrySize  int64
	nblocks    int64

	bitmap *bitmap.Bitmap
}

func newBlockGroupedFile(pool *bufferPool, startBlock, nblocks, blockSize, entrySize int64) *blockGroupedFile {
	return &blockGroupedFile{
		startBlock: startBlock,
		blockSize:  blockSize,
		entrySize:  entrySize,
		nblocks:    nblocks,
		bitmap:     bitmap.NewBits(int(blockSize * 8)),
	}
}

// entriesPerBlock returns how many fixed-size entries fit per block.
func (f *blockGroupedFile) entriesPerBlock() int64 {
	return f.blockSize / f.entrySize
}

// reserve marks index as allocated in the bitmap, matching mkfs.c's
// pre-allocation of every inode below USER_INO (and VBN 0 for the DAT).
func (f *blockGroupedFile) reserve(index int) error {
	return f.bitmap.Set(index)
}

// use marks index as allocated, for entries assigned during segment
// assembly rather than up front (e.g. a VBN handed out while walking
// files in assembler.go).
func (f *blockGroupedFile) use(index int) error {
	return f.bitmap.Set(index)
}

// entryBlockAndOffset returns the block number (absolute, within the
// pool) and byte offset of entry index.
func (f *blockGroupedFile) entryBlockAndOffset(index int64) (int64, int64) {
	perBlock := f.entriesPerBlock()
	blockOffset := index / perBlock
	byteOffset := (index % perBlock) * f.entrySize
	// block 0 = group descriptor, block 1 = bitmap, block 2.. = entries
	return f.startBlock + 2 + blockOffset, byteOffset
}

// writeEntry copies raw into entry index's slot.
func (f *blockGroupedFile) writeEntry(pool *bufferPool, index int64, raw []byte) error {
	if int64(len(raw)) != f.entrySize {
		return fmt.Errorf("nilfs2: entry size mismatch: got %d, want %d", len(raw), f.entrySize)
	}
	blk, off := f.entryBlockAndOffset(index)
	buf, err := pool.get(blk)
	if err != nil {
		return err
	}
	copy(buf[off:off+f.entrySize], raw)
	return nil
}

// commit writes the group descriptor and bitmap blocks. The descriptor's
// free count is the number of still-unallocated entries in the group,
// mirroring mkfs.c's nfrees field.
func (f *blockGroupedFile) commit(pool *bufferPool) error {
	descBlock, err := pool.get(f.startBlock)
	if err != nil {
		return err
	}
	entriesPerGroup := f.blockSize * 8
	used := 0
	for i := int64(0); i < entriesPerGroup; i++ {
		set, _ := f.bitmap.IsSet(int(i))
		if set {
			used++
		}
	}
	free := entriesPerGroup - int64(used)
	binary.LittleEndian.PutUint32(descBlock[0x00:], uint32(free))

	bitmapBlock, err := pool.get(f.startBlock + 1)
	if err != nil {
		return err
	}
	copy(bitmapBlock, f.bitmap.ToBytes())
	return nil
}
