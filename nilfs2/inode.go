package nilfs2

import "encoding/binary"

// File type bits packed into the high nibble of Mode, matching the
// type<<12 | perm template from mkfs.c's inode initialization comment.
const (
	fileTypeRegular uint16 = 0o10 << 12
	fileTypeDir     uint16 = 0o04 << 12
)

// Inode is the generic on-disk record shared by every file in the initial
// image: ordinary files, directories, and the metadata files themselves
// (ifile/cpfile/sufile/DAT each carry one, inline in the super root or
// checkpoint record that owns them).
type Inode struct {
	Mode  uint16
	Flags uint32
	Size  uint64
	Blocks uint64
	Links uint32
	Ctime uint64
	Mtime uint64

	// Bmap holds bmapRootPtrs inline pointers. Bmap[0] is reserved as the
	// inline-root marker and is always zero for a direct-mapped inode;
	// Bmap[i+1] holds the VBN (or, for the DAT file, the physical block
	// number) of the inode's i-th data block.
	Bmap [bmapRootPtrs]uint64
}

func newInode(mode uint16, ctime uint64) *Inode {
	return &Inode{
		Mode:  mode,
		Links: 1,
		Ctime: ctime,
		Mtime: ctime,
	}
}

// setBlock records the VBN/physical block number of the i-th data block,
// growing Size/Blocks to match. i must be less than MaxInlineBlocks.
func (ino *Inode) setBlock(i int, blockSize int64, vbn uint64) {
	ino.Bmap[i+1] = vbn
	ino.Blocks++
	ino.Size += uint64(blockSize)
}

func (ino *Inode) toBytes() []byte {
	b := make([]byte, inodeBytes)
	binary.LittleEndian.PutUint16(b[0x00:], ino.Mode)
	binary.LittleEndian.PutUint32(b[0x04:], ino.Flags)
	binary.LittleEndian.PutUint64(b[0x08:], ino.Size)
	binary.LittleEndian.PutUint64(b[0x10:], ino.Blocks)
	binary.LittleEndian.PutUint32(b[0x18:], ino.Links)
	binary.LittleEndian.PutUint64(b[0x20:], ino.Ctime)
	binary.LittleEndian.PutUint64(b[0x28:], ino.Mtime)
	for i, v := range ino.Bmap {
		binary.LittleEndian.PutUint64(b[0x30+i*8:], v)
	}
	return b
}

func inodeFromBytes(b []byte) *Inode {
	ino := &Inode{}
	ino.Mode = binary.LittleEndian.Uint16(b[0x00:])
	ino.Flags = binary.LittleEndian.Uint32(b[0x04:])
	ino.Size = binary.LittleEndian.Uint64(b[0x08:])
	ino.Blocks = binary.LittleEndian.Uint64(b[0x10:])
	ino.Links = binary.LittleEndian.Uint32(b[0x18:])
	ino.Ctime = binary.LittleEndian.Uint64(b[0x20:])
	ino.Mtime = binary.LittleEndian.Uint64(b[0x28:])
	for i := range ino.Bmap {
		ino.Bmap[i] = binary.LittleEndian.Uint64(b[0x30+i*8:])
	}
	return ino
}
