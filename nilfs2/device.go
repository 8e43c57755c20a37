package nilfs2

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/nilfs2/gonilfs2/backend"
	"github.com/nilfs2/gonilfs2/mounttab"
)

// ErrMountConflict, ErrDeviceTooSmall, and ErrSegmentTooSmall are
// sentinels callers can match with errors.Is.
var (
	ErrMountConflict   = errors.New("nilfs2: device is currently mounted")
	ErrDeviceTooSmall  = errors.New("nilfs2: device too small")
	ErrSegmentTooSmall = errors.New("nilfs2: segment too small")
)

// CheckNotMounted aborts with ErrMountConflict if device appears as the
// first field of any line in the host's mount tables. Grounded on
// diskfs.go/disk_unix.go's device-handling style, generalized per spec
// §4.6/§9's mount-guard contract; the parser itself is mounttab's own,
// not a host library.
func CheckNotMounted(device string) error {
	entries, err := mounttab.ReadPaths("/etc/mtab", "/proc/mounts")
	if err != nil {
		// No readable mount table at all is an environment error, not a
		// license to skip the guard silently.
		return fmt.Errorf("nilfs2: cannot read mount table: %w", err)
	}
	if mounttab.IsMounted(entries, device) {
		return fmt.Errorf("%s: %w", device, ErrMountConflict)
	}
	return nil
}

// blkGetSize64 matches the Linux BLKGETSIZE64 ioctl number.
const blkGetSize64 = 0x80081272

// DeviceSize returns the size in bytes of path: the stat size for a
// regular file (image mode), or a BLKGETSIZE64 ioctl for a block device.
// Grounded on disk_unix.go's ioctl-guarded-by-ModeDevice pattern and
// diskfs.go's sysfs-size fallback.
func DeviceSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("nilfs2: stat %s: %w", path, err)
	}
	if fi.Mode().IsRegular() {
		return fi.Size(), nil
	}
	if fi.Mode()&os.ModeDevice == 0 {
		return 0, fmt.Errorf("nilfs2: %s is neither a regular file nor a block device", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("nilfs2: open %s: %w", path, err)
	}
	defer f.Close()

	size, ioctlErr := unix.IoctlGetInt(int(f.Fd()), blkGetSize64)
	if ioctlErr == nil {
		return int64(size), nil
	}

	// Fall back to the sysfs size file, in 512-byte sectors, matching
	// diskfs.go's initDisk.
	sizePath := filepath.Join("/sys/class/block", filepath.Base(path), "size")
	raw, err := os.ReadFile(sizePath)
	if err != nil {
		return 0, fmt.Errorf("nilfs2: cannot determine size of device %s: ioctl failed (%v) and %s unreadable: %w", path, ioctlErr, sizePath, err)
	}
	sectors, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("nilfs2: invalid size in %s: %w", sizePath, err)
	}
	return sectors * 512, nil
}

// Write commits the formatter's output to store: every populated block
// of the initial segment, then the superblock, each followed by a
// durability barrier. Per spec §4.6/§5, the superblock is written only
// after every segment block is durable, so a crash before it lands
// leaves the device looking like its prior (unformatted) state.
func (f *Formatter) Write(store backend.Storage) error {
	w, err := store.Writable()
	if err != nil {
		return fmt.Errorf("nilfs2: cannot write device: %w", err)
	}

	bs := f.Layout.BlockSize
	for _, blk := range f.pool.sortedBlockNumbers() {
		buf := f.pool.blocks[blk]
		if _, err := w.WriteAt(buf, blk*bs); err != nil {
			return fmt.Errorf("nilfs2: cannot write device: block %d: %w", blk, err)
		}
	}
	if err := syncWritable(w); err != nil {
		return fmt.Errorf("nilfs2: cannot write device: sync: %w", err)
	}

	sbBytes := f.SuperblockBytes()
	if _, err := w.WriteAt(sbBytes, SBOffsetBytes); err != nil {
		return fmt.Errorf("nilfs2: cannot write device: superblock: %w", err)
	}
	if err := syncWritable(w); err != nil {
		return fmt.Errorf("nilfs2: cannot write device: sync: %w", err)
	}
	return nil
}

// syncWritable issues a durability barrier if the underlying file
// supports it; a backend.WritableFile that isn't an *os.File (e.g. a test
// double) has no durability concept to flush.
func syncWritable(w backend.WritableFile) error {
	if f, ok := w.(*os.File); ok {
		return f.Sync()
	}
	return nil
}
