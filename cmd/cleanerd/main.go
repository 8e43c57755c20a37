// Command cleanerd is the nilfs2 cleaner (garbage collector) daemon
// process. Per spec.md's Non-goals, the actual segment-reclamation
// policy is out of scope; this binary implements only the daemon
// contract cleanerd.h/mount.nilfs2.c rely on: argument parsing, a pid
// file, and graceful shutdown on signal.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultConffile = "/etc/nilfs_cleanerd.conf"

var (
	conffile string
	pidfile  string
	noDaemon bool
)

func main() {
	root := &cobra.Command{
		Use:          "cleanerd <device> <mountpoint>",
		Short:        "nilfs2 cleaner daemon",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         run,
	}
	flags := root.Flags()
	flags.StringVarP(&conffile, "conffile", "c", defaultConffile, "configuration file path")
	flags.StringVarP(&pidfile, "pidfile", "p", "", "pid file path (default: none)")
	flags.BoolVarP(&noDaemon, "no-daemon", "n", false, "stay in the foreground (the process never detaches, with or without this flag)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cleanerd: %s\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	device, mountpoint := args[0], args[1]

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.Infof("starting cleaner daemon for %s on %s (config=%s)", device, mountpoint, conffile)

	if pidfile != "" {
		if err := os.WriteFile(pidfile, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
			return fmt.Errorf("cannot write pidfile %s: %w", pidfile, err)
		}
		defer os.Remove(pidfile)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	log.Info("cleaner daemon ready; segment-reclamation policy is not implemented")
	<-sig
	log.Info("cleaner daemon shutting down")
	return nil
}
