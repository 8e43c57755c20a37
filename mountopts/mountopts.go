// Package mountopts parses a mount(8)-style "-o" option string into the
// standard MS_* flag bits plus a residual filesystem-specific string,
// grounded on original_source/sbin/mount/mount.nilfs2.c's parse_opts.
package mountopts

import (
	"strconv"
	"strings"
)

// MS_* bit values match Linux's uapi/linux/fs.h so they can be passed
// straight to a real mount(2) syscall if one is wired in later.
const (
	MSRdonly  uint64 = 1
	MSRemount uint64 = 32
)

// Parse splits a comma-separated option string into MS_* flag bits and a
// residual comma-separated string of options the kernel module handles
// itself (everything not recognized here).
func Parse(opts string) (flags uint64, residual string) {
	if opts == "" {
		return 0, ""
	}
	var extra []string
	for _, tok := range strings.Split(opts, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		switch tok {
		case "ro":
			flags |= MSRdonly
		case "rw":
			flags &^= MSRdonly
		case "remount":
			flags |= MSRemount
		default:
			extra = append(extra, tok)
		}
	}
	return flags, strings.Join(extra, ",")
}

// GcpidOptName is the option name the mount helper uses to record the
// cleaner daemon's pid in the mount-table entry, e.g. "gcpid=1234".
const GcpidOptName = "gcpid"

// WithGcpid appends (or replaces) a gcpid=<pid> token in extra.
func WithGcpid(extra string, pid int) string {
	filtered := RemoveGcpid(extra)
	tok := GcpidOptName + "=" + strconv.Itoa(pid)
	if filtered == "" {
		return tok
	}
	return filtered + "," + tok
}

// RemoveGcpid strips any gcpid=<pid> token from extra.
func RemoveGcpid(extra string) string {
	if extra == "" {
		return ""
	}
	var kept []string
	for _, tok := range strings.Split(extra, ",") {
		if strings.HasPrefix(tok, GcpidOptName+"=") {
			continue
		}
		if tok != "" {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, ",")
}

// FindGcpid returns the pid recorded in extra's gcpid= token, if any.
func FindGcpid(extra string) (pid int, ok bool) {
	for _, tok := range strings.Split(extra, ",") {
		if strings.HasPrefix(tok, GcpidOptName+"=") {
			v := strings.TrimPrefix(tok, GcpidOptName+"=")
			n, err := strconv.Atoi(v)
			if err != nil {
				continue
			}
			return n, true
		}
	}
	return 0, false
}
