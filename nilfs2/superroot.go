package nilfs2

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// superRoot is the terminal block of a partial segment whose SR flag is
// set: the root of the on-disk tree for one checkpoint, carrying the
// inline inodes of the three metadata files that are not themselves
// part of a checkpoint record (DAT, CPFILE, SUFILE).
type superRoot struct {
	Sum         uint32 // self-checksum, computed last
	Flags       uint32
	NongcCtime  uint64

	DatInode    Inode
	CpfileInode Inode
	SufileInode Inode
}

func (sr *superRoot) toBytes(crcSeed uint32) []byte {
	b := make([]byte, srBytes)
	binary.LittleEndian.PutUint32(b[0x00:], 0) // Sum, filled last
	binary.LittleEndian.PutUint32(b[0x04:], uint32(srBytes))
	binary.LittleEndian.PutUint32(b[0x08:], sr.Flags)
	binary.LittleEndian.PutUint32(b[0x0C:], 0)
	binary.LittleEndian.PutUint64(b[0x10:], sr.NongcCtime)
	copy(b[0x18:0x18+inodeBytes], sr.DatInode.toBytes())
	copy(b[0x18+inodeBytes:0x18+2*inodeBytes], sr.CpfileInode.toBytes())
	copy(b[0x18+2*inodeBytes:0x18+3*inodeBytes], sr.SufileInode.toBytes())

	// Checksum covers only the bytes after the Sum field itself, not the
	// whole record (mkfs.c's fill_in_checksums: crc_offset = sizeof(sr_sum)).
	sum := crc32.Update(crcSeed, crc32.IEEETable, b[4:])
	binary.LittleEndian.PutUint32(b[0x00:], sum)
	return b
}

func superRootFromBytes(b []byte, crcSeed uint32) (*superRoot, error) {
	if len(b) < srBytes {
		return nil, fmt.Errorf("nilfs2: super root buffer too short: %d < %d", len(b), srBytes)
	}
	sum := binary.LittleEndian.Uint32(b[0x00:])
	want := crc32.Update(crcSeed, crc32.IEEETable, b[4:srBytes])
	if want != sum {
		return nil, fmt.Errorf("nilfs2: super root checksum mismatch: have %#x, want %#x", sum, want)
	}

	sr := &superRoot{Sum: sum}
	sr.Flags = binary.LittleEndian.Uint32(b[0x08:])
	sr.NongcCtime = binary.LittleEndian.Uint64(b[0x10:])
	sr.DatInode = *inodeFromBytes(b[0x18 : 0x18+inodeBytes])
	sr.CpfileInode = *inodeFromBytes(b[0x18+inodeBytes : 0x18+2*inodeBytes])
	sr.SufileInode = *inodeFromBytes(b[0x18+2*inodeBytes : 0x18+3*inodeBytes])
	return sr, nil
}
