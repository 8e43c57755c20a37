package nilfs2

import "encoding/binary"

// sufileHeader occupies slot 0 of the segment-usage file.
type sufileHeader struct {
	Ncleansegs uint64
	Ndirtysegs uint64
	LastAlloc  uint64
}

func (h *sufileHeader) toBytes() []byte {
	b := make([]byte, sufileHeaderBytes)
	binary.LittleEndian.PutUint64(b[0x00:], h.Ncleansegs)
	binary.LittleEndian.PutUint32(b[0x08:], uint32(h.Ndirtysegs))
	binary.LittleEndian.PutUint32(b[0x0C:], uint32(h.LastAlloc))
	return b
}

// segmentUsage is one entry of the segment-usage file.
type segmentUsage struct {
	LastMod uint64
	Nblocks uint32
	Flags   uint32
}

func (su *segmentUsage) toBytes() []byte {
	b := make([]byte, suBytes)
	binary.LittleEndian.PutUint64(b[0x00:], su.LastMod)
	binary.LittleEndian.PutUint32(b[0x08:], su.Nblocks)
	binary.LittleEndian.PutUint32(b[0x0C:], su.Flags)
	return b
}

// sufileBuilder writes the sufile header and the initial segments'
// usage entries. Like the cpfile, the sufile is a flat array sized only
// for the initial entries (see ComputeLayout's SufileBlocks derivation);
// segments beyond the initial ones get their first SU record allocated
// later, by the running filesystem, which is out of scope here.
type sufileBuilder struct {
	startBlock int64
	blockSize  int64
}

func newSufileBuilder(startBlock, blockSize int64) *sufileBuilder {
	return &sufileBuilder{startBlock: startBlock, blockSize: blockSize}
}

func (b *sufileBuilder) slot(index int64) (blockOffset, byteOffset int64) {
	perBlock := b.blockSize / suBytes
	return index / perBlock, (index % perBlock) * suBytes
}

func (b *sufileBuilder) writeHeader(pool *bufferPool, h *sufileHeader) error {
	blk, off := b.slot(0)
	buf, err := pool.get(b.startBlock + blk)
	if err != nil {
		return err
	}
	copy(buf[off:off+sufileHeaderBytes], h.toBytes())
	return nil
}

func (b *sufileBuilder) writeEntry(pool *bufferPool, index int64, su *segmentUsage) error {
	blk, off := b.slot(index)
	buf, err := pool.get(b.startBlock + blk)
	if err != nil {
		return err
	}
	copy(buf[off:off+suBytes], su.toBytes())
	return nil
}
