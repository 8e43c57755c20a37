package nilfs2

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/google/uuid"
)

// Superblock is the static filesystem identity plus the tail pointer to
// the most recently committed super root. Field layout is authored from
// spec.md's §3.1/§4.7 field list; the real nilfs_fs.h byte layout was not
// available in the reference corpus, so offsets here are this
// implementation's own (see DESIGN.md).
type Superblock struct {
	CRCSeed uint32
	Sum     uint32 // self-checksum, computed last

	LogBlockSize uint32 // block size = 1 << (10 + LogBlockSize)

	Nsegments        uint64
	DevSize          uint64
	FirstDataBlock   uint64
	BlocksPerSegment uint32
	RSegmentsPercent uint32

	LastCno          uint64
	LastPseg         uint64
	LastSeq          uint64
	FreeBlocksCount  uint64

	Ctime uint64
	Mtime uint64 // wtime

	UUID   uuid.UUID
	Volume [16]byte
}

func blockSizeToLog(blockSize int64) uint32 {
	shift := uint32(0)
	for v := blockSize; v > 1024; v >>= 1 {
		shift++
	}
	return shift
}

// toBytes serializes the superblock, computing Sum with the checksum
// field itself zeroed, per the testable "superblock roundtrip" property.
func (sb *Superblock) toBytes() []byte {
	b := make([]byte, SBBytes)

	binary.LittleEndian.PutUint32(b[0x00:], uint32(SBMagic))
	binary.LittleEndian.PutUint32(b[0x04:], sb.CRCSeed)
	binary.LittleEndian.PutUint32(b[0x08:], 0) // Sum, filled last
	binary.LittleEndian.PutUint32(b[0x0C:], sb.LogBlockSize)
	binary.LittleEndian.PutUint64(b[0x10:], sb.Nsegments)
	binary.LittleEndian.PutUint64(b[0x18:], sb.DevSize)
	binary.LittleEndian.PutUint64(b[0x20:], sb.FirstDataBlock)
	binary.LittleEndian.PutUint32(b[0x28:], sb.BlocksPerSegment)
	binary.LittleEndian.PutUint32(b[0x2C:], sb.RSegmentsPercent)
	binary.LittleEndian.PutUint64(b[0x30:], sb.LastCno)
	binary.LittleEndian.PutUint64(b[0x38:], sb.LastPseg)
	binary.LittleEndian.PutUint64(b[0x40:], sb.LastSeq)
	binary.LittleEndian.PutUint64(b[0x48:], sb.FreeBlocksCount)
	binary.LittleEndian.PutUint64(b[0x50:], sb.Ctime)
	binary.LittleEndian.PutUint64(b[0x58:], sb.Mtime)
	copy(b[0x60:0x70], sb.UUID[:])
	copy(b[0x70:0x80], sb.Volume[:])

	sum := crc32.Update(sb.CRCSeed, crc32.IEEETable, b)
	binary.LittleEndian.PutUint32(b[0x08:], sum)
	return b
}

func superblockFromBytes(b []byte) (*Superblock, error) {
	if len(b) < SBBytes {
		return nil, fmt.Errorf("nilfs2: superblock buffer too short: %d < %d", len(b), SBBytes)
	}
	magic := binary.LittleEndian.Uint32(b[0x00:])
	if magic != SBMagic {
		return nil, fmt.Errorf("nilfs2: bad superblock magic %#x", magic)
	}

	sb := &Superblock{}
	sb.CRCSeed = binary.LittleEndian.Uint32(b[0x04:])
	sb.Sum = binary.LittleEndian.Uint32(b[0x08:])
	sb.LogBlockSize = binary.LittleEndian.Uint32(b[0x0C:])
	sb.Nsegments = binary.LittleEndian.Uint64(b[0x10:])
	sb.DevSize = binary.LittleEndian.Uint64(b[0x18:])
	sb.FirstDataBlock = binary.LittleEndian.Uint64(b[0x20:])
	sb.BlocksPerSegment = binary.LittleEndian.Uint32(b[0x28:])
	sb.RSegmentsPercent = binary.LittleEndian.Uint32(b[0x2C:])
	sb.LastCno = binary.LittleEndian.Uint64(b[0x30:])
	sb.LastPseg = binary.LittleEndian.Uint64(b[0x38:])
	sb.LastSeq = binary.LittleEndian.Uint64(b[0x40:])
	sb.FreeBlocksCount = binary.LittleEndian.Uint64(b[0x48:])
	sb.Ctime = binary.LittleEndian.Uint64(b[0x50:])
	sb.Mtime = binary.LittleEndian.Uint64(b[0x58:])
	copy(sb.UUID[:], b[0x60:0x70])
	copy(sb.Volume[:], b[0x70:0x80])

	check := make([]byte, SBBytes)
	copy(check, b[:SBBytes])
	binary.LittleEndian.PutUint32(check[0x08:], 0)
	want := crc32.Update(sb.CRCSeed, crc32.IEEETable, check)
	if want != sb.Sum {
		return nil, fmt.Errorf("nilfs2: superblock checksum mismatch: have %#x, want %#x", sb.Sum, want)
	}
	return sb, nil
}
