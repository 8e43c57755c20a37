// Command dumpsui dumps the segment-usage file, one line per segment,
// per spec.md §6's dumpsui contract.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nilfs2/gonilfs2/ioctlclient"
)

// nsuinfoBatch is the number of suinfo entries requested per ioctl call,
// mirroring dumpsui.c's NSUINFO_BATCH.
const nsuinfoBatch = 512

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	device := "/"
	if len(args) > 0 {
		device = args[0]
	}

	client, err := ioctlclient.Open(filepath.Join(device, ".nilfs"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "dumpsui: %s\n", err)
		return 1
	}
	defer client.Close()

	n, err := client.Nsegments()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dumpsui: %s\n", err)
		return 1
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	buf := make([]ioctlclient.SuInfo, nsuinfoBatch)
	for segnum := uint64(0); segnum < n; segnum += nsuinfoBatch {
		want := buf
		if remaining := n - segnum; remaining < nsuinfoBatch {
			want = buf[:remaining]
		}
		got, err := client.GetSuInfo(segnum, want)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dumpsui: %s\n", err)
			return 1
		}
		for i := 0; i < got; i++ {
			si := want[i]
			fmt.Fprintf(w, "%d %d %d\n", si.LastMod, si.Nblocks, si.LastDec)
		}
	}
	return 0
}
