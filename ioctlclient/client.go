// Package ioctlclient is the contract surface auxiliary tools (chcp,
// dumpsui, nilfs-defrag) use to talk to a mounted nilfs2 filesystem. It
// mirrors backend.Storage's real/fake split: one interface, a real
// implementation built on golang.org/x/sys/unix, and an in-memory fake
// used by tests.
package ioctlclient

import "errors"

// CpMode is the checkpoint mode an inode's CNO can be changed to.
type CpMode int

const (
	CpModeCp CpMode = iota
	CpModeSnapshot
)

// SuInfo is one segment's usage info, as reported by nilfs_get_suinfo.
type SuInfo struct {
	LastMod uint64
	Nblocks uint32
	LastDec uint64
	Active  bool
}

// CpStat summarizes the checkpoint file, as reported by nilfs_get_cpstat.
type CpStat struct {
	Ncps  uint64
	Ncpss uint64
}

// ErrNoCheckpoint is returned when an operation targets a CNO that does
// not exist — the ENOENT case spec.md §7 calls out by name.
var ErrNoCheckpoint = errors.New("ioctlclient: no checkpoint")

// Client is the ioctl surface chcp/dumpsui/nilfs-defrag need. Grounded
// on original_source/include/nilfs.h's client function declaration list
// (nilfs_change_cpmode, nilfs_get_suinfo, nilfs_get_sustat, ...); only
// the subset spec.md's auxiliary-tool contracts actually exercise is
// modeled.
type Client interface {
	// ChangeCpMode sets cno's mode to mode. Returns ErrNoCheckpoint if
	// cno does not exist.
	ChangeCpMode(cno uint64, mode CpMode) error

	// GetCpStat reports checkpoint-file summary counters.
	GetCpStat() (CpStat, error)

	// GetSuInfo reads up to len(out) consecutive segment-usage entries
	// starting at segnum, returning how many were filled.
	GetSuInfo(segnum uint64, out []SuInfo) (int, error)

	// Nsegments reports the total number of segments in the filesystem.
	Nsegments() (uint64, error)

	// Close releases any resources (file descriptors) held by the client.
	Close() error
}
