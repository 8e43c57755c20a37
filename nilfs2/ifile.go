package nilfs2

// ifileBuilder wraps the inode file's block-grouped storage: one group
// descriptor, one bitmap, and entry blocks holding Inode records indexed
// by inode number.
type ifileBuilder struct {
	*blockGroupedFile
}

func newIfileBuilder(pool *bufferPool, startBlock, nblocks, blockSize int64) (*ifileBuilder, error) {
	f := newBlockGroupedFile(pool, startBlock, nblocks, blockSize, inodeBytes)
	// Reserve every inode below USER_INO, whether or not it gets a
	// written entry (IfileIno/CpfileIno/SufileIno/DatIno are inlined
	// directly in the checkpoint/super-root records, not stored here,
	// but their inode numbers must never be handed to a user file).
	for i := uint64(0); i < UserIno; i++ {
		if err := f.reserve(int(i)); err != nil {
			return nil, err
		}
	}
	return &ifileBuilder{f}, nil
}

// putInode writes ino's on-disk record. Only inodes below UserIno that
// are NOT one of the four metadata-file inode numbers get a stored
// record; everything else is reserved-but-empty.
func (b *ifileBuilder) putInode(pool *bufferPool, ino uint64, rec *Inode) error {
	return b.writeEntry(pool, int64(ino), rec.toBytes())
}
