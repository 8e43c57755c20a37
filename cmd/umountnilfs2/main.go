// Command umount.nilfs2 is the umount(8) filesystem helper: it stops the
// cleaner daemon recorded against the device's mount-table entry, per
// spec.md §6. Runtime mount-table manipulation is an explicit non-goal
// (spec.md §1): this tool looks the entry up read-only in /proc/mounts
// and never writes /etc/mtab itself.
package main

import (
	"fmt"
	"os"

	"github.com/nilfs2/gonilfs2/mounttab"
	"github.com/nilfs2/gonilfs2/mountopts"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "umount.nilfs2: usage: umount.nilfs2 <device-or-mountpoint>")
		return 1
	}
	target := args[0]

	entries, err := mounttab.ReadPaths("/proc/mounts")
	if err != nil {
		fmt.Fprintf(os.Stderr, "umount.nilfs2: %s\n", err)
		return 1
	}

	entry, found := mounttab.Find(entries, target)
	if !found {
		for _, e := range entries {
			if e.MountPoint == target {
				entry, found = e, true
				break
			}
		}
	}
	if !found {
		fmt.Fprintf(os.Stderr, "umount.nilfs2: %s: not mounted\n", target)
		return 1
	}

	if pid, ok := mountopts.FindGcpid(entry.Options); ok {
		if p, err := os.FindProcess(pid); err == nil {
			p.Signal(os.Interrupt)
		}
	}

	return 0
}
