// Package nilfs2 implements the on-disk format and initial-image
// formatter for a NILFS2-style log-structured filesystem.
package nilfs2

const (
	// SBMagic identifies a nilfs2 superblock.
	SBMagic = 0x3434

	// SBOffsetBytes is the byte offset of the superblock within the device.
	SBOffsetBytes = 1024

	// SBBytes is the checksummed length of the superblock header.
	SBBytes = 136

	// MinBlockSize and MaxBlockSize bound the block size (power of two).
	MinBlockSize = 1024
	MaxBlockSize = 65536

	// MinBlocksPerSegment bounds blocks-per-segment (power of two). A
	// segment below this floor is rejected by it before layout.go's
	// "segment too small for required metadata" check runs; that check
	// applies only to segments at or above the floor.
	MinBlocksPerSegment = 16

	// MinReservedPercent and MaxReservedPercent bound -m.
	MinReservedPercent = 1
	MaxReservedPercent = 99
)

// Reserved inode numbers, in on-disk layout order within the initial segment.
const (
	RootIno     uint64 = 2
	SketchIno   uint64 = 3
	DotNilfsIno uint64 = 4
	IfileIno    uint64 = 5
	CpfileIno   uint64 = 6
	SufileIno   uint64 = 7
	DatIno      uint64 = 8

	// UserIno is the first inode number available to user files.
	UserIno uint64 = 11
)

// Checkpoint number bounds, per original_source/include/nilfs.h.
const (
	CnoMin uint64 = 1
	CnoMax uint64 = ^uint64(0)
)

// nrInitialSegments is the number of segments occupied by the initial
// image: segment 0 (the one the formatter writes) plus the segment its
// ss_next pointer targets, mirroring mkfs.c's NILFS_SB2_OFFSET_BYTES dance
// of always having a second segment to roll into.
const nrInitialSegments = 2

// nrInitialInodes is the number of ordinary (non-metadata-file) inodes
// populated by the formatter: root directory, .sketch, .nilfs.
const nrInitialInodes = 3

const firstCno uint64 = 1

// minReservedSegments and minUserSegments are absolute floors on top of
// the percentage-derived reservation, mirroring mkfs.c's MIN_NRSVSEGS.
const (
	minReservedSegments = 1
	minUserSegments      = nrInitialSegments
)

// Segment summary flags.
const (
	SSLogBgn uint16 = 0x0001
	SSLogEnd uint16 = 0x0002
	SSSR     uint16 = 0x0004
)

// Segment usage flags.
const (
	SUActive uint32 = 0x0001
	SUDirty  uint32 = 0x0002
	SUError  uint32 = 0x0004
)

// bmapRootPtrs is the number of u64 slots in an inode's inline block map.
// Slot 0 is reserved as an inline/root marker; slots 1..bmapRootPtrs-1
// hold the VBN (or, for the DAT file, the physical block number) of the
// i-th data block, so at most bmapRootPtrs-1 blocks may be addressed
// inline. This bounds every metadata file's initial block count.
const bmapRootPtrs = 8

// MaxInlineBlocks is the number of data blocks an inode can address
// through its inline bmap alone.
const MaxInlineBlocks = bmapRootPtrs - 1

// On-disk record sizes, in bytes.
const (
	inodeBytes  = 112
	finfoBytes  = 24
	binfoVBytes = 16 // {vbn, block_offset}
	binfoDBytes = 8  // DAT file: logical block offset only
	datEntryBytes = 24
	cpBytes     = 160
	suBytes     = 16
	groupDescBytes = 8
	ssHeaderBytes = 0x2c
	srBytes     = 360
)

// cpfileHeaderBytes and sufileHeaderBytes are the fixed header regions at
// the start of each file: the header occupies a slot sized like one
// ordinary entry (mirroring nilfs_cpfile_header's real on-disk sizing),
// which is what lets CPFileFirstOffset/SUFileFirstOffset be folded
// directly into the "(N + firstOffset) * entrySize / blocksize" sizing
// formula instead of needing a separate header-block term.
const (
	cpfileHeaderBytes = cpBytes
	sufileHeaderBytes = suBytes
)

// SUFileFirstOffset and CPFileFirstOffset are the index of the first
// usable (non-header) entry in the sufile/cpfile, mirroring mkfs.c's
// reservation of slot 0 for the header/"nilfs_cpfile_header" record.
const (
	SUFileFirstOffset = 1
	CPFileFirstOffset = 1
)
