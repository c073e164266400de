// Copyright 2016 Aleksandr Demakin. All rights reserved.

package channel

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramedSize(t *testing.T) {
	a := assert.New(t)
	a.Equal(uint64(64), framedSize(1))
	a.Equal(uint64(64), framedSize(56))
	a.Equal(uint64(128), framedSize(57))
	a.Equal(uint64(128), framedSize(100))
	a.Equal(uint64(1024), framedSize(1016))
	a.Equal(uint64(0), roundUp64(0))
	a.Equal(uint64(64), roundUp64(64))
}

func TestFreeSpace(t *testing.T) {
	const capacity = 1024
	const end = headerOffset + capacity
	tests := []struct {
		name       string
		head, tail uint64
		expected   int
	}{
		{"empty", dataStart, dataStart, capacity},
		{"full at end", end, end, 0},
		{"drained in the middle", 400, 400, end - 400 - headerOffset},
		{"head ahead", 528, 80, end - 528 - headerOffset},
		{"head behind", 80, 528, 528 - 80 - headerOffset},
		{"head right behind tail", 80, 88, 0},
		{"head at the end", end - 8, dataStart, 0},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, freeSpace(test.head, test.tail, capacity), test.name)
	}
}

func TestFitsAt(t *testing.T) {
	const capacity = 1024
	a := assert.New(t)
	a.True(fitsAt(dataStart, 960, capacity))
	a.False(fitsAt(dataStart, 1024, capacity))
	// at 784 there are 1040-784-16 = 240 bytes.
	a.True(fitsAt(784, 192, capacity))
	a.False(fitsAt(784, 256, capacity))
	a.False(fitsAt(784, 240, capacity))
}

func TestNewRegion(t *testing.T) {
	a := assert.New(t)
	_, err := newRegion(make([]byte, headerOffset+MinCapacity-1))
	a.Error(err)

	words := make([]uint64, (headerOffset+MinCapacity)/wordSize)
	data := unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), len(words)*wordSize)
	r, err := newRegion(data)
	require.NoError(t, err)
	a.Equal(uint64(MinCapacity), r.capacity)
	a.Equal(uint64(headerOffset+MinCapacity), r.end())
	// a zero-filled region is empty until the producer resets it.
	a.True(r.valid())
	words[1] = dataStart
	a.False(r.valid())
	words[0], words[1] = 1, 1
	a.False(r.valid())
	r.reset()
	a.True(r.valid())
	a.Equal(uint64(dataStart), r.loadHead())
	a.Equal(uint64(dataStart), r.loadTail())
	a.Equal(uint64(dataStart), words[0])
}

func TestMaxPayload(t *testing.T) {
	a := assert.New(t)
	a.Equal(56, maxPayload(256))
	a.Equal(440, maxPayload(1024))
	a.Equal(120, maxPayload(320))
	for _, capacity := range []uint64{256, 320, 1024, 1 << 20} {
		max := maxPayload(capacity)
		a.True(framedSize(max) < capacity/2)
		a.False(framedSize(max+1) < capacity/2)
	}
}
