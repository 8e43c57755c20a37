package nilfs2

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// Formatter collects every piece of state the formatter threads through
// layout, assembly, and the checksum pass — the single value that
// replaces mkfs.c's module-level globals (nilfs, raw_sb, blocksize), per
// spec.md's design note on eliminating global mutable state.
type Formatter struct {
	Layout *Layout
	Opts   Options

	pool *bufferPool

	sb Superblock
	ss segmentSummary
	sr superRoot

	ifile  *ifileBuilder
	dat    *datBuilder
	cpfile *cpfileBuilder
	sufile *sufileBuilder

	firstPsegBlock int64
	nblocksInPseg  int64

	ctime uint64
}

// fileSpec describes one file's place in the initial segment's finfo
// sequence.
type fileSpec struct {
	ino      uint64
	nblocks  int64
	isDat    bool
}

// Assemble computes the layout, populates the buffer pool with every
// metadata file of the initial segment, and returns the not-yet-
// checksummed Formatter. Call Finalize to complete the commit/checksum
// pass before writing. Grounded on mkfs.c's prepare_segment, generalized
// into one pass rather than mkfs.c's mutate-in-place globals.
func Assemble(opts Options) (*Formatter, error) {
	layout, err := ComputeLayout(opts)
	if err != nil {
		return nil, err
	}

	ctime := uint64(opts.Ctime)
	if ctime == 0 {
		ctime = uint64(ambientCtime().Unix())
	}

	bs := layout.BlockSize
	// Bound the pool generously: header area + one full segment.
	pool := newBufferPool(bs, layout.FirstDataBlock+layout.BlocksPerSegment)

	f := &Formatter{Layout: layout, Opts: opts, pool: pool, ctime: ctime}

	files := []fileSpec{
		{RootIno, 1, false},
		{SketchIno, 0, false},
		{DotNilfsIno, 0, false},
		{IfileIno, layout.IfileBlocks, false},
		{CpfileIno, layout.CpfileBlocks, false},
		{SufileIno, layout.SufileBlocks, false},
		{DatIno, layout.DatBlocks, true},
	}

	nfinfo := 0
	sizer := newSegsumSize(bs)
	for _, fs := range files {
		if fs.nblocks == 0 {
			continue
		}
		nfinfo++
		sizer.add(finfoBytes)
		binfoSize := int64(binfoVBytes)
		if fs.isDat {
			binfoSize = binfoDBytes
		}
		for i := int64(0); i < fs.nblocks; i++ {
			sizer.add(binfoSize)
		}
	}
	summaryBlocks := sizer.blocks()

	dataStart := layout.FirstDataBlock + summaryBlocks
	rootDirBlock := dataStart
	ifileStart := rootDirBlock + 1
	cpfileStart := ifileStart + layout.IfileBlocks
	sufileStart := cpfileStart + layout.CpfileBlocks
	datStart := sufileStart + layout.SufileBlocks
	superRootBlock := datStart + layout.DatBlocks

	f.firstPsegBlock = layout.FirstDataBlock
	f.nblocksInPseg = superRootBlock + 1 - layout.FirstDataBlock

	ifileB, err := newIfileBuilder(pool, ifileStart, layout.IfileBlocks, bs)
	if err != nil {
		return nil, err
	}
	datB, err := newDatBuilder(pool, datStart, layout.DatBlocks, bs)
	if err != nil {
		return nil, err
	}
	cpfileB := newCpfileBuilder(cpfileStart, bs)
	sufileB := newSufileBuilder(sufileStart, bs)
	f.ifile, f.dat, f.cpfile, f.sufile = ifileB, datB, cpfileB, sufileB

	// Root directory + its two stub files.
	rootDirBuf, err := pool.get(rootDirBlock)
	if err != nil {
		return nil, err
	}
	copy(rootDirBuf, buildRootDirBlock(bs))

	rootInode := newInode(fileTypeDir, ctime)
	rootVbn, err := datB.assignVbn(pool, rootDirBlock)
	if err != nil {
		return nil, err
	}
	rootInode.setBlock(0, bs, rootVbn)
	rootInode.Links += 2 // "." and "..", both of which refer to the root itself

	sketchInode := newInode(fileTypeRegular, ctime)
	nilfsInode := newInode(fileTypeRegular, ctime)

	if err := ifileB.putInode(pool, RootIno, rootInode); err != nil {
		return nil, err
	}
	if err := ifileB.putInode(pool, SketchIno, sketchInode); err != nil {
		return nil, err
	}
	if err := ifileB.putInode(pool, DotNilfsIno, nilfsInode); err != nil {
		return nil, err
	}

	ifileInode := newInode(fileTypeRegular, ctime)
	for i := int64(0); i < layout.IfileBlocks; i++ {
		phys := ifileStart + i
		vbn, err := datB.assignVbn(pool, phys)
		if err != nil {
			return nil, err
		}
		ifileInode.setBlock(int(i), bs, vbn)
	}

	cpfileInode := newInode(fileTypeRegular, ctime)
	for i := int64(0); i < layout.CpfileBlocks; i++ {
		phys := cpfileStart + i
		vbn, err := datB.assignVbn(pool, phys)
		if err != nil {
			return nil, err
		}
		cpfileInode.setBlock(int(i), bs, vbn)
	}

	sufileInode := newInode(fileTypeRegular, ctime)
	for i := int64(0); i < layout.SufileBlocks; i++ {
		phys := sufileStart + i
		vbn, err := datB.assignVbn(pool, phys)
		if err != nil {
			return nil, err
		}
		sufileInode.setBlock(int(i), bs, vbn)
	}

	datInode := newInode(fileTypeRegular, ctime)
	for i := int64(0); i < layout.DatBlocks; i++ {
		phys := datStart + i
		datInode.setBlock(int(i), bs, uint64(phys))
	}

	if err := ifileB.commit(pool); err != nil {
		return nil, err
	}
	if err := datB.commit(pool); err != nil {
		return nil, err
	}

	// Checkpoint file: header + the one initial checkpoint.
	if err := cpfileB.writeHeader(pool, &cpfileHeader{Ncheckpoints: 1}); err != nil {
		return nil, err
	}
	cp := &checkpoint{
		Cno:         firstCno,
		Flags:       CPValid,
		Ctime:       ctime,
		NblkInc:     uint64(f.nblocksInPseg),
		InodesCount: nrInitialInodes,
		BlocksCount: uint64(f.nblocksInPseg),
		IfileInode:  *ifileInode,
	}
	if err := cpfileB.writeCheckpoint(pool, CPFileFirstOffset, cp); err != nil {
		return nil, err
	}

	// Segment-usage file: header + initial segments' usage.
	if err := sufileB.writeHeader(pool, &sufileHeader{
		Ncleansegs: uint64(layout.Nsegments - nrInitialSegments),
		Ndirtysegs: nrInitialSegments,
		LastAlloc:  uint64(layout.Nsegments - 1),
	}); err != nil {
		return nil, err
	}
	for seg := int64(0); seg < nrInitialSegments; seg++ {
		su := &segmentUsage{Flags: SUActive | SUDirty}
		if seg == 0 {
			su.LastMod = ctime
			su.Nblocks = uint32(f.nblocksInPseg)
		}
		if err := sufileB.writeEntry(pool, seg+SUFileFirstOffset, su); err != nil {
			return nil, err
		}
	}

	// Segment summary: finfo/binfo records, in the same file order used
	// for sizing above.
	sw := &summaryWriter{ss: newSegsumSize(bs), pool: pool, firstBlock: layout.FirstDataBlock}
	bmaps := map[uint64]*Inode{
		RootIno:     rootInode,
		SketchIno:   sketchInode,
		DotNilfsIno: nilfsInode,
		IfileIno:    ifileInode,
		CpfileIno:   cpfileInode,
		SufileIno:   sufileInode,
		DatIno:      datInode,
	}
	for _, fs := range files {
		if fs.nblocks == 0 {
			continue
		}
		fi := &finfo{Ino: fs.ino, Cno: firstCno, Nblocks: uint32(fs.nblocks), Ndatablk: uint32(fs.nblocks)}
		if err := sw.write(fi.toBytes()); err != nil {
			return nil, err
		}
		ino := bmaps[fs.ino]
		for i := int64(0); i < fs.nblocks; i++ {
			if fs.isDat {
				bi := &binfoD{BlockOffset: uint64(i)}
				if err := sw.write(bi.toBytes()); err != nil {
					return nil, err
				}
			} else {
				bi := &binfoV{Vbn: ino.Bmap[i+1], BlockOffset: uint64(i)}
				if err := sw.write(bi.toBytes()); err != nil {
					return nil, err
				}
			}
		}
	}

	f.ss = segmentSummary{
		Flags:    SSLogBgn | SSLogEnd | SSSR,
		Seq:      0,
		Create:   ctime,
		Next:     uint64(layout.BlocksPerSegment),
		Nblocks:  uint32(f.nblocksInPseg),
		Nfinfo:   uint32(nfinfo),
		Sumbytes: uint32(sw.ss.offset),
	}

	f.sr = superRoot{
		NongcCtime:  ctime,
		DatInode:    *datInode,
		CpfileInode: *cpfileInode,
		SufileInode: *sufileInode,
	}

	fsUUID := uuid.New()
	// The CRC seed is an independent random 32-bit value mixed into every
	// on-disk checksum (glossary: "CRC seed"); derive it from a second
	// UUID's leading bytes rather than reusing the filesystem UUID itself.
	seedSrc := uuid.New()
	crcSeed := binary.LittleEndian.Uint32(seedSrc[:4])

	label := [16]byte{}
	copy(label[:], opts.Label)

	f.sb = Superblock{
		CRCSeed:          crcSeed,
		LogBlockSize:     blockSizeToLog(bs),
		Nsegments:        uint64(layout.Nsegments),
		DevSize:          uint64(opts.DeviceSize),
		FirstDataBlock:   uint64(layout.FirstDataBlock),
		BlocksPerSegment: uint32(layout.BlocksPerSegment),
		RSegmentsPercent: uint32(opts.ReservedPercent),
		Ctime:            ctime,
		Mtime:            ctime,
		UUID:             fsUUID,
		Volume:           label,
	}

	return f, nil
}

// summaryWriter serializes finfo/binfo records into the pool, honoring
// the same block-straddle avoidance as segsumSize (which it wraps).
type summaryWriter struct {
	ss         *segsumSize
	pool       *bufferPool
	firstBlock int64
}

func (w *summaryWriter) write(raw []byte) error {
	n := int64(len(raw))
	w.ss.add(n)
	start := w.ss.offset - n
	blk := w.firstBlock + start/w.ss.blockSize
	byteOff := start % w.ss.blockSize
	buf, err := w.pool.get(blk)
	if err != nil {
		return err
	}
	copy(buf[byteOff:byteOff+n], raw)
	return nil
}
