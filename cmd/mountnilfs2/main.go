// Command mount.nilfs2 is the mount(8) filesystem helper: it partitions
// "-o" options into MS_* flags and a residual string and manages the
// cleaner daemon's lifecycle, per spec.md §6. Runtime mount-table
// manipulation is an explicit non-goal (spec.md §1): this tool consults
// /proc/mounts read-only to detect an existing rw mount, but never
// writes /etc/mtab itself — that remains the host mount(8)/util-linux
// machinery's job.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/nilfs2/gonilfs2/mounttab"
	"github.com/nilfs2/gonilfs2/mountopts"
)

var (
	optString string
	fstype    string
	dryRun    bool
	verbose   bool
)

func main() {
	root := &cobra.Command{
		Use:          "mount.nilfs2 <device> <mountpoint>",
		Short:        "nilfs2 mount(8) filesystem helper",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := run(args[0], args[1])
			if status != 0 {
				os.Exit(status)
			}
			return nil
		},
	}
	flags := root.Flags()
	flags.StringVarP(&optString, "options", "o", "", "comma-separated mount options")
	flags.StringVarP(&fstype, "types", "t", "nilfs2", "filesystem type")
	flags.BoolVarP(&dryRun, "no-mount", "n", false, "parse and report only; do not start or stop the cleaner daemon")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mount.nilfs2: %s\n", err)
		os.Exit(1)
	}
}

func run(device, mountpoint string) int {
	flags, residual := mountopts.Parse(optString)
	entries, err := mounttab.ReadPaths("/proc/mounts")
	if err != nil {
		entries = nil
	}

	rw := flags&mountopts.MSRdonly == 0
	remount := flags&mountopts.MSRemount != 0

	if existing, found := mounttab.Find(entries, device); found && rw && !remount {
		if existingFlags, _ := mountopts.Parse(existing.Options); existingFlags&mountopts.MSRdonly == 0 {
			fmt.Fprintf(os.Stderr, "mount.nilfs2: %s: already rw-mounted\n", device)
			return 1
		}
	}

	if verbose {
		fmt.Printf("mount.nilfs2: mounting %s on %s (flags=%#x, opts=%q)\n", device, mountpoint, flags, residual)
	}

	if dryRun {
		return 0
	}

	if rw {
		pid, err := startCleanerd(device, mountpoint)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mount.nilfs2: cannot start cleaner daemon: %s\n", err)
			return 1
		}
		fmt.Printf("mount.nilfs2: cleaner daemon started, pid %d\n", pid)
	} else if existing, found := mounttab.Find(entries, device); found {
		if pid, ok := mountopts.FindGcpid(existing.Options); ok {
			stopCleanerd(pid)
		}
	}

	return 0
}

// startCleanerd spawns the cleaner daemon for device/mountpoint and
// returns its pid. Grounded on mount.nilfs2.c's start_cleanerd, which
// forks+execs the cleanerd binary and records its pid.
func startCleanerd(device, mountpoint string) (int, error) {
	cmd := exec.Command("cleanerd", device, mountpoint)
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	return cmd.Process.Pid, nil
}

// stopCleanerd signals the cleaner daemon at pid to shut down.
func stopCleanerd(pid int) {
	if p, err := os.FindProcess(pid); err == nil {
		p.Signal(os.Interrupt)
	}
}
