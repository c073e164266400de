// Copyright 2016 Aleksandr Demakin. All rights reserved.

package channel

import "encoding/binary"

const (
	// wordSize is the size of head and tail words. It is the same on all platforms,
	// so that 32 and 64 bit peers agree on the layout.
	wordSize = 8
	// headerOffset is the size of the region header (head and tail words).
	// It is also the offset of the data area from the start of the mapping.
	headerOffset = 2 * wordSize
	headOffset   = 0
	tailOffset   = wordSize
	dataStart    = headerOffset
	// messageHeaderSize is the size of a message length prefix.
	messageHeaderSize = 8
	// alignment is the granularity of message placement.
	alignment = 64
)

// roundUp64 rounds n up to the next multiple of alignment.
func roundUp64(n uint64) uint64 {
	return (n + alignment - 1) &^ (alignment - 1)
}

// framedSize returns the number of bytes occupied by a message with the given payload length.
func framedSize(length int) uint64 {
	return roundUp64(uint64(length) + messageHeaderSize)
}

func putHeader(dst []byte, length int) {
	binary.LittleEndian.PutUint64(dst[:messageHeaderSize], uint64(length))
}

func readHeader(src []byte) uint64 {
	return binary.LittleEndian.Uint64(src[:messageHeaderSize])
}
