// Copyright 2016 Aleksandr Demakin. All rights reserved.

package channel

import (
	"sync/atomic"

	"github.com/nxgtw/scenelink/internal/allocator"

	"github.com/pkg/errors"
)

// region is a view over a mapped shared region:
//	[0, 8)              head, the offset of the next write
//	[8, 16)             tail, the offset of the next read
//	[16, 16+capacity)   data area
// Offsets are absolute from the start of the mapping.
type region struct {
	data     []byte
	head     *uint64
	tail     *uint64
	capacity uint64
}

func newRegion(data []byte) (*region, error) {
	if len(data) < headerOffset+MinCapacity {
		return nil, errors.Errorf("region of %d bytes is too small", len(data))
	}
	head, err := allocator.Uint64At(data, headOffset)
	if err != nil {
		return nil, errors.Wrap(err, "invalid head location")
	}
	tail, err := allocator.Uint64At(data, tailOffset)
	if err != nil {
		return nil, errors.Wrap(err, "invalid tail location")
	}
	return &region{
		data:     data,
		head:     head,
		tail:     tail,
		capacity: uint64(len(data) - headerOffset),
	}, nil
}

func (r *region) end() uint64 {
	return headerOffset + r.capacity
}

func (r *region) loadHead() uint64 {
	return atomic.LoadUint64(r.head)
}

func (r *region) loadTail() uint64 {
	return atomic.LoadUint64(r.tail)
}

func (r *region) storeHead(v uint64) {
	atomic.StoreUint64(r.head, v)
}

func (r *region) storeTail(v uint64) {
	atomic.StoreUint64(r.tail, v)
}

func (r *region) reset() {
	r.storeHead(dataStart)
	r.storeTail(dataStart)
}

// valid returns true, if head and tail lie within the data area,
// or if both are zero, as in a region, which has not been reset yet.
func (r *region) valid() bool {
	head, tail := r.loadHead(), r.loadTail()
	if head == 0 && tail == 0 {
		return true
	}
	return head >= dataStart && head <= r.end() && tail >= dataStart && tail <= r.end()
}

// freeSpace returns the number of bytes, which can be written at head without wrapping.
// The region between the data start and tail is not counted, when head is ahead of tail.
func freeSpace(head, tail, capacity uint64) int {
	end := int64(headerOffset + capacity)
	var free int64
	switch {
	case head > tail:
		free = end - int64(head) - headerOffset
	case head < tail:
		free = int64(tail) - int64(head) - headerOffset
	case head == dataStart:
		return int(capacity)
	case int64(head) == end:
		return 0
	default:
		free = end - int64(head) - headerOffset
	}
	if free < 0 {
		return 0
	}
	return int(free)
}

// fitsAt tells whether a message of framed size can be placed at pos without
// crossing the end of the data area. The producer and the consumer use it
// to take the same wrap decision for the same message.
func fitsAt(pos, framed, capacity uint64) bool {
	if pos == dataStart {
		return framed < capacity
	}
	return int64(headerOffset+capacity)-int64(pos)-headerOffset > int64(framed)
}
