// Copyright 2016 Aleksandr Demakin. All rights reserved.

package channel

import (
	"encoding/binary"

	"github.com/nxgtw/scenelink/internal/helper"
	"github.com/nxgtw/scenelink/mmf"

	"github.com/pkg/errors"
)

// DumpRegion reads the state of an existing channel region without taking its lock.
// The returned Stats has no Role.
func DumpRegion(name string) (Stats, error) {
	mem, err := helper.OpenReadOnlyRegion(name)
	if err != nil {
		return Stats{}, resourceErr("map region", name, err)
	}
	defer mem.Close()
	if mem.Size() < headerOffset+MinCapacity {
		return Stats{}, resourceErr("map region", name, errors.Errorf("region of %d bytes is too small", mem.Size()))
	}
	var words struct {
		Head uint64
		Tail uint64
	}
	reader := mmf.NewMemoryRegionReader(mem)
	if err = binary.Read(reader.Section(0, headerOffset), binary.NativeEndian, &words); err != nil {
		return Stats{}, errors.Wrap(err, "failed to read region header")
	}
	capacity := uint64(mem.Size() - headerOffset)
	return Stats{
		Capacity:  int(capacity),
		Head:      int(words.Head),
		Tail:      int(words.Tail),
		FreeSpace: freeSpace(words.Head, words.Tail, capacity),
	}, nil
}
