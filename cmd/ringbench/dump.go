// Copyright 2016 Aleksandr Demakin. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/nxgtw/scenelink/channel"
)

// dump prints the state of an existing region without opening it as a channel.
func dump(w io.Writer, name string) error {
	stats, err := channel.DumpRegion(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "capacity %d\nhead %d\ntail %d\nfree %d\n", stats.Capacity, stats.Head, stats.Tail, stats.FreeSpace)
	return nil
}
