// Package mounttab parses the host mount table as a plain whitespace
// delimited text format, deliberately not relying on any host mount-table
// library (spec design note: "treat the mount table as a simple
// whitespace-delimited text format, 6 fields per line").
package mounttab

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Entry is one line of /etc/mtab or /proc/mounts.
type Entry struct {
	Device     string
	MountPoint string
	FSType     string
	Options    string
	DumpFreq   string
	PassNo     string
}

// Parse reads every well-formed 6-field line from r. Malformed lines are
// skipped rather than aborting the read, since comment/blank lines are
// common in /etc/mtab-style files.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		fields := splitFields(line)
		if len(fields) < 6 {
			continue
		}
		entries = append(entries, Entry{
			Device:     fields[0],
			MountPoint: fields[1],
			FSType:     fields[2],
			Options:    fields[3],
			DumpFreq:   fields[4],
			PassNo:     fields[5],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("mounttab: read: %w", err)
	}
	return entries, nil
}

func splitFields(line string) []string {
	var fields []string
	start := -1
	for i, r := range line {
		if r == ' ' || r == '\t' {
			if start >= 0 {
				fields = append(fields, line[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, line[start:])
	}
	return fields
}

// ReadPaths parses every one of paths that exists and returns all their
// entries concatenated, in path order. A missing file is skipped; only
// when none of paths exists does it return an error, which the caller
// (device.go) treats differently from "a device IS listed as mounted".
func ReadPaths(paths ...string) ([]Entry, error) {
	var all []Entry
	found := false
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("mounttab: open %s: %w", p, err)
		}
		found = true
		entries, err := Parse(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	if !found {
		return nil, fmt.Errorf("mounttab: none of %v could be read", paths)
	}
	return all, nil
}

// IsMounted reports whether device appears as the first field of any
// entry in entries.
func IsMounted(entries []Entry, device string) bool {
	for _, e := range entries {
		if e.Device == device {
			return true
		}
	}
	return false
}

// Find returns the entry for device, if any, and whether it was found.
func Find(entries []Entry, device string) (Entry, bool) {
	for _, e := range entries {
		if e.Device == device {
			return e, true
		}
	}
	return Entry{}, false
}

