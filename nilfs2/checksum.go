package nilfs2

import (
	"encoding/binary"
	"hash/crc32"
)

// readRange reads length bytes starting at (startBlock, startByte) from
// the pool, concatenating across block boundaries. Untouched blocks read
// as zero, matching how the device writer treats them (sparse == zero).
func readRange(pool *bufferPool, startBlock, startByte, length int64) ([]byte, error) {
	out := make([]byte, length)
	pos := int64(0)
	blk := startBlock
	off := startByte
	for pos < length {
		buf, err := pool.get(blk)
		if err != nil {
			return nil, err
		}
		n := pool.blockSize - off
		if n > length-pos {
			n = length - pos
		}
		copy(out[pos:pos+n], buf[off:off+n])
		pos += n
		blk++
		off = 0
	}
	return out, nil
}

// Finalize runs the mandatory commit/checksum pass (spec §4.5 steps 4-7):
// summary checksum, super-root checksum, chained segment-data checksum,
// then the superblock's tail pointer and its own checksum. Order matters
// for crash consistency and must not be reordered.
func (f *Formatter) Finalize() error {
	bs := f.Layout.BlockSize
	crcSeed := f.sb.CRCSeed

	// Write the segment-summary header with both checksum fields still
	// zero; the finfo/binfo payload past byte ssHeaderBytes was already
	// written during assembly.
	headerBlock, err := f.pool.get(f.firstPsegBlock)
	if err != nil {
		return err
	}
	copy(headerBlock[0:ssHeaderBytes], f.ss.toBytes())

	// Step 4: summary checksum over [8, sumbytes).
	sumRegion, err := readRange(f.pool, f.firstPsegBlock, 8, int64(f.ss.Sumbytes)-8)
	if err != nil {
		return err
	}
	f.ss.SumSum = crc32.Update(crcSeed, crc32.IEEETable, sumRegion)
	binary.LittleEndian.PutUint32(headerBlock[0x04:], f.ss.SumSum)

	// Step 5: super-root checksum, over the super-root bytes that follow
	// its own checksum field, up to srBytes (see superRoot.toBytes).
	superRootBlockNr := f.firstPsegBlock + f.nblocksInPseg - 1
	srBuf, err := f.pool.get(superRootBlockNr)
	if err != nil {
		return err
	}
	srBytesBuf := f.sr.toBytes(crcSeed)
	copy(srBuf[:len(srBytesBuf)], srBytesBuf)

	// Step 6: segment data checksum, chained from byte 8 of the first
	// block through the end of the last block of the partial segment.
	dataRegion, err := readRange(f.pool, f.firstPsegBlock, 8, f.nblocksInPseg*bs-8)
	if err != nil {
		return err
	}
	f.ss.DataSum = crc32.Update(crcSeed, crc32.IEEETable, dataRegion)
	binary.LittleEndian.PutUint32(headerBlock[0x00:], f.ss.DataSum)

	// Step 7: superblock tail pointer + its own checksum.
	f.sb.LastCno = firstCno
	f.sb.LastPseg = uint64(f.firstPsegBlock)
	f.sb.LastSeq = 0
	f.sb.FreeBlocksCount = uint64(f.Layout.BlocksPerSegment) * uint64(f.Layout.Nsegments-segmentsWritten(f.Layout))
	f.sb.Mtime = f.ctime

	return nil
}

// segmentsWritten is the number of segments the formatter actually wrote
// data into (just segment 0 — segment 1 exists only as the ss_next
// target for the running filesystem's first real write).
func segmentsWritten(l *Layout) int64 {
	return 1
}

// SuperblockBytes renders the finalized superblock for writing.
func (f *Formatter) SuperblockBytes() []byte {
	return f.sb.toBytes()
}
