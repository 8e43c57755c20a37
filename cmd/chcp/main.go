// Command chcp changes one or more checkpoints' mode between regular
// checkpoint and snapshot, per spec.md §6's chcp contract.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nilfs2/gonilfs2/cno"
	"github.com/nilfs2/gonilfs2/ioctlclient"
)

const version = "gonilfs2 chcp 0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "chcp: usage: chcp cp|ss [device] CNO...")
		return 1
	}

	var mode ioctlclient.CpMode
	switch args[0] {
	case "cp":
		mode = ioctlclient.CpModeCp
	case "ss":
		mode = ioctlclient.CpModeSnapshot
	default:
		fmt.Fprintf(os.Stderr, "chcp: unknown mode %q\n", args[0])
		return 1
	}
	args = args[1:]

	device := "/"
	if len(args) > 0 {
		if _, err := cno.Parse(args[0]); err != nil {
			device = args[0]
			args = args[1:]
		}
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "chcp: no checkpoint numbers given")
		return 1
	}

	client, err := ioctlclient.Open(filepath.Join(device, ".nilfs"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "chcp: %s\n", err)
		return 1
	}
	defer client.Close()

	unlock, err := acquireWriteIntentLock(filepath.Join(device, ".nilfs"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "chcp: %s\n", err)
		return 1
	}
	defer unlock()

	status := 0
	for _, arg := range args {
		c, err := cno.Parse(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chcp: %s: %s\n", arg, err)
			status = 1
			continue
		}
		if err := client.ChangeCpMode(c, mode); err != nil {
			if err == ioctlclient.ErrNoCheckpoint {
				fmt.Fprintf(os.Stderr, "chcp: %d: no checkpoint\n", c)
			} else {
				fmt.Fprintf(os.Stderr, "chcp: %d: %s\n", c, err)
			}
			status = 1
			continue
		}
	}
	return status
}
