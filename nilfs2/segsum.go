package nilfs2

import "encoding/binary"

// segmentSummary is the fixed-width header at the start of a partial
// segment. The two leading fields are its own checksums: DataSum covers
// the segment's data blocks, SumSum covers the summary region itself
// starting right after these two fields (see checksum.go).
type segmentSummary struct {
	DataSum uint32
	SumSum  uint32

	Flags    uint16
	Seq      uint32
	Create   uint64
	Next     uint64 // block number of the next segment (ss_next)
	Nblocks  uint32
	Nfinfo   uint32
	Sumbytes uint32
}

func (ss *segmentSummary) toBytes() []byte {
	b := make([]byte, ssHeaderBytes)
	binary.LittleEndian.PutUint32(b[0x00:], ss.DataSum)
	binary.LittleEndian.PutUint32(b[0x04:], ss.SumSum)
	binary.LittleEndian.PutUint16(b[0x08:], SSMagicLow)
	binary.LittleEndian.PutUint16(b[0x0A:], ss.Flags)
	binary.LittleEndian.PutUint32(b[0x0C:], ss.Seq)
	binary.LittleEndian.PutUint64(b[0x10:], ss.Create)
	binary.LittleEndian.PutUint64(b[0x18:], ss.Next)
	binary.LittleEndian.PutUint32(b[0x20:], ss.Nblocks)
	binary.LittleEndian.PutUint32(b[0x24:], ss.Nfinfo)
	binary.LittleEndian.PutUint32(b[0x28:], ss.Sumbytes)
	return b
}

// SSMagicLow tags a segment summary block as belonging to this format.
const SSMagicLow uint16 = 0x3412

// finfo describes one file's contribution to a partial segment: its
// inode number, checkpoint number, and how many of the following binfo
// records are data blocks vs. node (metadata) blocks.
type finfo struct {
	Ino      uint64
	Cno      uint64
	Nblocks  uint32
	Ndatablk uint32
}

func (fi *finfo) toBytes() []byte {
	b := make([]byte, finfoBytes)
	binary.LittleEndian.PutUint64(b[0x00:], fi.Ino)
	binary.LittleEndian.PutUint64(b[0x08:], fi.Cno)
	binary.LittleEndian.PutUint32(b[0x10:], fi.Nblocks)
	binary.LittleEndian.PutUint32(b[0x14:], fi.Ndatablk)
	return b
}

// binfoV is a block-info record for any file other than the DAT: the
// block's assigned VBN and its logical offset within the file.
type binfoV struct {
	Vbn          uint64
	BlockOffset  uint64
}

func (bi *binfoV) toBytes() []byte {
	b := make([]byte, binfoVBytes)
	binary.LittleEndian.PutUint64(b[0x00:], bi.Vbn)
	binary.LittleEndian.PutUint64(b[0x08:], bi.BlockOffset)
	return b
}

// binfoD is a block-info record for the DAT file: just the logical block
// offset, since DAT blocks are addressed physically, not virtually.
type binfoD struct {
	BlockOffset uint64
}

func (bi *binfoD) toBytes() []byte {
	b := make([]byte, binfoDBytes)
	binary.LittleEndian.PutUint64(b[0x00:], bi.BlockOffset)
	return b
}
