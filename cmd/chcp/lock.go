package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// acquireWriteIntentLock takes the write-intent advisory lock spec.md §5
// mandates: byte 0, length 1, on the ioctl control file, via the host's
// range-lock primitive (F_SETLKW, which waits for a conflicting lock to
// be released). Grounded on nilfs2/device.go's use of
// golang.org/x/sys/unix for the host ioctl/syscall surface.
func acquireWriteIntentLock(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s for locking: %w", path, err)
	}

	lock := unix.Flock_t{
		Type:   unix.F_WRLCK,
		Whence: 0,
		Start:  0,
		Len:    1,
	}
	if err := unix.FcntlFlock(f.Fd(), unix.F_SETLKW, &lock); err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot acquire write-intent lock on %s: %w", path, err)
	}

	return func() {
		unlock := unix.Flock_t{Type: unix.F_UNLCK, Whence: 0, Start: 0, Len: 1}
		unix.FcntlFlock(f.Fd(), unix.F_SETLK, &unlock)
		f.Close()
	}, nil
}
