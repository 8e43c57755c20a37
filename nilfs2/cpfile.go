package nilfs2

import "encoding/binary"

// cpfileHeader occupies slot 0 of the checkpoint file, sized like an
// ordinary checkpoint entry (see const.go's cpfileHeaderBytes).
type cpfileHeader struct {
	Ncheckpoints uint64
	SnapshotHead uint64
	SnapshotTail uint64
}

func (h *cpfileHeader) toBytes() []byte {
	b := make([]byte, cpfileHeaderBytes)
	binary.LittleEndian.PutUint64(b[0x00:], h.Ncheckpoints)
	binary.LittleEndian.PutUint64(b[0x08:], h.SnapshotHead)
	binary.LittleEndian.PutUint64(b[0x10:], h.SnapshotTail)
	return b
}

// Checkpoint flags.
const (
	CPValid    uint32 = 0x0001
	CPSnapshot uint32 = 0x0002
)

// checkpoint is one entry of the checkpoint file: a snapshot record
// carrying the inode file's inline inode and summary counters.
type checkpoint struct {
	Cno          uint64
	Flags        uint32
	Ctime        uint64
	NblkInc      uint64
	InodesCount  uint64
	BlocksCount  uint64
	IfileInode   Inode
}

func (c *checkpoint) toBytes() []byte {
	b := make([]byte, cpBytes)
	binary.LittleEndian.PutUint64(b[0x00:], c.Cno)
	binary.LittleEndian.PutUint32(b[0x08:], c.Flags)
	binary.LittleEndian.PutUint64(b[0x10:], c.Ctime)
	binary.LittleEndian.PutUint64(b[0x18:], c.NblkInc)
	binary.LittleEndian.PutUint64(b[0x20:], c.InodesCount)
	binary.LittleEndian.PutUint64(b[0x28:], c.BlocksCount)
	copy(b[0x30:0x30+inodeBytes], c.IfileInode.toBytes())
	return b
}

// cpfileBuilder writes the cpfile header and the single initial
// checkpoint at CPFileFirstOffset. The cpfile is a flat array, not a
// block-grouped file: its initial size only ever needs to hold these two
// slots (see ComputeLayout's CpfileBlocks derivation).
type cpfileBuilder struct {
	startBlock int64
	blockSize  int64
}

func newCpfileBuilder(startBlock, blockSize int64) *cpfileBuilder {
	return &cpfileBuilder{startBlock: startBlock, blockSize: blockSize}
}

func (b *cpfileBuilder) slot(index int64) (blockOffset, byteOffset int64) {
	perBlock := b.blockSize / cpBytes
	return index / perBlock, (index % perBlock) * cpBytes
}

func (b *cpfileBuilder) writeHeader(pool *bufferPool, h *cpfileHeader) error {
	blk, off := b.slot(0)
	buf, err := pool.get(b.startBlock + blk)
	if err != nil {
		return err
	}
	copy(buf[off:off+cpfileHeaderBytes], h.toBytes())
	return nil
}

func (b *cpfileBuilder) writeCheckpoint(pool *bufferPool, index int64, cp *checkpoint) error {
	blk, off := b.slot(index)
	buf, err := pool.get(b.startBlock + blk)
	if err != nil {
		return err
	}
	copy(buf[off:off+cpBytes], cp.toBytes())
	return nil
}
