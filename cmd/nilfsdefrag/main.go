// Command nilfs-defrag reports a volume-wide dirty-segment plan: for
// each named file it locates the containing nilfs2 volume (via that
// file's directory) and lists every segment that is flagged active and
// has blocks written (nblocks > 0), i.e. a candidate for reclamation.
// It does not resolve the named
// file's own extents, so the report is the same for any two files on
// the same volume. Per spec.md's Non-goals the actual block migration
// is not performed; this is a planning report only, grounded on
// nilfs-defrag.c's plan-then-migrate structure with the migrate half
// left out.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nilfs2/gonilfs2/ioctlclient"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "nilfs-defrag: usage: nilfs-defrag <file>...")
		return 1
	}

	status := 0
	for _, target := range args {
		if err := plan(target); err != nil {
			fmt.Fprintf(os.Stderr, "nilfs-defrag: %s: %s\n", target, err)
			status = 1
		}
	}
	return status
}

// plan reports every active segment with nblocks > 0 on the volume
// containing target; it does not resolve target's own block extents.
func plan(target string) error {
	fi, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("cannot stat: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("not a regular file")
	}

	dir := filepath.Dir(target)
	client, err := ioctlclient.Open(filepath.Join(dir, ".nilfs"))
	if err != nil {
		return fmt.Errorf("cannot find corresponding nilfs volume: %w", err)
	}
	defer client.Close()

	n, err := client.Nsegments()
	if err != nil {
		return fmt.Errorf("cannot get sustat: %w", err)
	}

	buf := make([]ioctlclient.SuInfo, 1)
	fragmented := 0
	for segnum := uint64(0); segnum < n; segnum++ {
		if _, err := client.GetSuInfo(segnum, buf); err != nil {
			return fmt.Errorf("cannot get suinfo: %w", err)
		}
		if buf[0].Active && buf[0].Nblocks > 0 {
			fmt.Printf("DEFRAG: segment %d nblocks %d\n", segnum, buf[0].Nblocks)
			fragmented++
		}
	}
	if fragmented == 0 {
		fmt.Printf("%s: volume has no dirty segments\n", target)
	}
	return nil
}
