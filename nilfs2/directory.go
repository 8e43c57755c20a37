package nilfs2

import "encoding/binary"

// dirEntryHeaderBytes is {ino(8), recLen(2), nameLen(1), fileType(1)}.
const dirEntryHeaderBytes = 12

const (
	fileTypeDirEnt    byte = 2
	fileTypeRegularEnt byte = 1
)

func roundUp8(n int) int {
	return (n + 7) &^ 7
}

// buildRootDirBlock lays out the four entries of the initial root
// directory — ".", "..", ".sketch", ".nilfs" — into a single block, with
// the last entry's rec_len padded out to the end of the block, per
// mkfs.c's add_nilfs_root_dir layout.
func buildRootDirBlock(blockSize int64) []byte {
	type ent struct {
		ino      uint64
		name     string
		fileType byte
	}
	entries := []ent{
		{RootIno, ".", fileTypeDirEnt},
		{RootIno, "..", fileTypeDirEnt},
		{SketchIno, ".sketch", fileTypeRegularEnt},
		{DotNilfsIno, ".nilfs", fileTypeRegularEnt},
	}

	b := make([]byte, blockSize)
	offset := 0
	for i, e := range entries {
		recLen := roundUp8(dirEntryHeaderBytes + len(e.name))
		if i == len(entries)-1 {
			recLen = int(blockSize) - offset
		}
		binary.LittleEndian.PutUint64(b[offset:], e.ino)
		binary.LittleEndian.PutUint16(b[offset+8:], uint16(recLen))
		b[offset+10] = byte(len(e.name))
		b[offset+11] = e.fileType
		copy(b[offset+dirEntryHeaderBytes:], e.name)
		offset += recLen
	}
	return b
}
