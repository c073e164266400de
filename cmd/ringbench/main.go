// Copyright 2016 Aleksandr Demakin. All rights reserved.

// ringbench sends or receives a stream of messages through a channel.
// Run a producer and a consumer with the same arguments and compare their output.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

var (
	objName  = flag.String("name", "ringbench", "shared memory region name")
	debug    = flag.Bool("debug", false, "enable debug logging")
	destroy  = flag.Bool("destroy", false, "destroy the region after the run")
	dumpOnly = flag.Bool("dump", false, "print the state of an existing region and exit")
)

const usage = `  benchmark and test program for scenelink channels.
usage:
  ringbench [flags] role sleepMs capacityMB count length|random
  ringbench -dump [-name name]
    role        producer or consumer
    sleepMs     pause after every message
    capacityMB  data area size in megabytes, must be the same for both sides
    count       number of messages
    length      payload length in bytes, or 'random'
every message is printed as 'index length crc', where crc is a running CRC-32
of all payloads so far.
flags:
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if *dumpOnly {
		if err := dump(os.Stdout, *objName); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	args, err := parseArgs(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	log, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, args, log, os.Stdout); err != nil {
		log.Error("run failed", zap.Stringer("role", args.role), zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func printLine(w io.Writer, index, length int, crc uint32) {
	fmt.Fprintf(w, "%d %d %08x\n", index, length, crc)
}
