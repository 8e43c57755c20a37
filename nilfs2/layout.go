package nilfs2

import (
	"fmt"
)

// Options are the formatter's inputs, corresponding to the mkfs CLI flags.
type Options struct {
	BlockSize          int64
	BlocksPerSegment   int64
	ReservedPercent    int
	DeviceSize         int64
	Label              string
	Ctime              int64 // unix seconds; 0 means "use the ambient clock"
}

// Layout is the deterministic disk layout computed from Options.
type Layout struct {
	Opts Options

	BlockSize        int64
	BlocksPerSegment int64

	// Nsegments is the total number of segments the device holds.
	Nsegments int64
	// FirstSegmentStartBlock is the block number at which segment 0 begins.
	FirstSegmentStartBlock int64
	// FirstDataBlock is the block at which the first partial segment's
	// summary begins, i.e. ceil(HEADER_BYTES / blocksize).
	FirstDataBlock int64

	IfileBlocks  int64
	CpfileBlocks int64
	SufileBlocks int64
	DatBlocks    int64

	// ReservedSegments is the minimum number of segments that must stay
	// unused for cleaner reclamation headroom.
	ReservedSegments int64
}

// headerBytes is the space reserved at the front of the device for the
// superblock (at SBOffsetBytes), before the first segment may begin.
const headerBytes = 4096

func ceilDiv(a, b int64) int64 {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func isPowerOfTwo(v int64) bool {
	return v > 0 && v&(v-1) == 0
}

// countBlockgroupedFileBlocks computes the block count of a block-grouped
// file (inode file or DAT) holding nrInitialEntries fixed-size records,
// one group descriptor block, one bitmap block, and the entry blocks
// themselves. It is a direct translation of mkfs.c's
// count_blockgrouped_file_blocks, including its two rejection conditions.
func countBlockgroupedFileBlocks(nrInitialEntries, entrySize, blockSize int64) (int64, error) {
	entriesPerGroup := blockSize * 8
	if nrInitialEntries > entriesPerGroup {
		return 0, fmt.Errorf("nilfs2: %d initial entries exceed one bitmap group of %d for block size %d", nrInitialEntries, entriesPerGroup, blockSize)
	}

	entriesPerBlock := blockSize / entrySize
	entryBlocks := ceilDiv(nrInitialEntries, entriesPerBlock)

	const groupDescBlocksCount = 1
	const bitmapBlocksCount = 1
	total := groupDescBlocksCount + bitmapBlocksCount + entryBlocks

	if total > MaxInlineBlocks {
		return 0, fmt.Errorf("nilfs2: block-grouped file needs %d blocks, exceeding the %d inline bmap pointers available", total, MaxInlineBlocks)
	}
	return total, nil
}

// ComputeLayout validates opts and computes the full initial disk layout.
// It mirrors mkfs.c's sequence of sizing calls in main(): validate options,
// size each metadata file, derive the minimum segment count, and fail
// fast if the device or segment size cannot hold the result.
func ComputeLayout(opts Options) (*Layout, error) {
	if !isPowerOfTwo(opts.BlockSize) || opts.BlockSize < MinBlockSize || opts.BlockSize > MaxBlockSize {
		return nil, fmt.Errorf("nilfs2: block size %d must be a power of two in [%d, %d]", opts.BlockSize, MinBlockSize, MaxBlockSize)
	}
	if !isPowerOfTwo(opts.BlocksPerSegment) || opts.BlocksPerSegment < MinBlocksPerSegment {
		return nil, fmt.Errorf("nilfs2: blocks per segment %d must be a power of two >= %d", opts.BlocksPerSegment, MinBlocksPerSegment)
	}
	if opts.ReservedPercent < MinReservedPercent || opts.ReservedPercent > MaxReservedPercent {
		return nil, fmt.Errorf("nilfs2: reserved percent %d out of range [%d, %d]", opts.ReservedPercent, MinReservedPercent, MaxReservedPercent)
	}

	segmentBytes := opts.BlockSize * opts.BlocksPerSegment
	nsegments := opts.DeviceSize / segmentBytes

	ifileBlocks, err := countBlockgroupedFileBlocks(int64(UserIno), inodeBytes, opts.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("nilfs2: sizing inode file: %w", err)
	}

	sufileEntries := nrInitialSegments + SUFileFirstOffset
	sufileBlocks := ceilDiv(sufileEntries*suBytes, opts.BlockSize)

	cpfileEntries := int64(1) + CPFileFirstOffset
	cpfileBlocks := ceilDiv(cpfileEntries*cpBytes, opts.BlockSize)

	// DAT entries: one per VBN assigned in the initial segment (every
	// block of ifile, cpfile, sufile, and the 1-block root directory;
	// the two stub files are zero-length) plus one reserved for VBN 0.
	datEntries := ifileBlocks + cpfileBlocks + sufileBlocks + 1 /*root dir*/ + 1 /*VBN 0*/
	datBlocks, err := countBlockgroupedFileBlocks(datEntries, datEntryBytes, opts.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("nilfs2: sizing DAT: %w", err)
	}

	reservedSegs := ceilDiv(int64(opts.ReservedPercent)*nsegments, 100)
	if reservedSegs < minReservedSegments {
		reservedSegs = minReservedSegments
	}
	userFloor := int64(minUserSegments)
	minSegs := reservedSegs + userFloor

	if nsegments < minSegs {
		return nil, fmt.Errorf("%w: holds %d segments, need at least %d", ErrDeviceTooSmall, nsegments, minSegs)
	}

	firstDataBlock := ceilDiv(headerBytes, opts.BlockSize)
	pSegMinBlocks := int64(1 + ifileBlocks + cpfileBlocks + sufileBlocks + datBlocks + 1 /*root dir*/ + 1 /*super root*/)
	if firstDataBlock+pSegMinBlocks > opts.BlocksPerSegment {
		return nil, fmt.Errorf("%w: need at least %d blocks, have %d per segment", ErrSegmentTooSmall, firstDataBlock+pSegMinBlocks, opts.BlocksPerSegment)
	}

	return &Layout{
		Opts:                   opts,
		BlockSize:              opts.BlockSize,
		BlocksPerSegment:       opts.BlocksPerSegment,
		Nsegments:              nsegments,
		FirstSegmentStartBlock: 0,
		FirstDataBlock:         firstDataBlock,
		IfileBlocks:            ifileBlocks,
		CpfileBlocks:           cpfileBlocks,
		SufileBlocks:           sufileBlocks,
		DatBlocks:              datBlocks,
		ReservedSegments:       reservedSegs,
	}, nil
}

// segsumSize tracks the running byte offset of a segment summary while
// finfo/binfo records are appended, refusing to let a record straddle a
// block boundary — a direct translation of mkfs.c's
// __increment_segsum_size helper.
type segsumSize struct {
	blockSize  int64
	offset     int64 // total bytes consumed so far, across blocks
}

func newSegsumSize(blockSize int64) *segsumSize {
	return &segsumSize{blockSize: blockSize, offset: ssHeaderBytes}
}

// add reserves n bytes for one record, padding to the next block boundary
// first if the record would otherwise straddle two blocks.
func (s *segsumSize) add(n int64) {
	curBlock := s.offset / s.blockSize
	endBlock := (s.offset + n - 1) / s.blockSize
	if curBlock != endBlock {
		s.offset = endBlock * s.blockSize
	}
	s.offset += n
}

// blocks returns the number of blocks the summary has grown to occupy.
func (s *segsumSize) blocks() int64 {
	return ceilDiv(s.offset, s.blockSize)
}
