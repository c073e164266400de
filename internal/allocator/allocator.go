// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package allocator contains helpers to place plain values into mapped memory.
package allocator

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Uint32At returns a pointer to a uint32 placed at the given offset of memory.
// The offset must be 4-byte aligned relative to an aligned mapping.
func Uint32At(memory []byte, offset int) (*uint32, error) {
	if err := checkCell(memory, offset, 4); err != nil {
		return nil, err
	}
	return (*uint32)(unsafe.Pointer(&memory[offset])), nil
}

// Uint64At returns a pointer to a uint64 placed at the given offset of memory.
// The offset must be 8-byte aligned relative to an aligned mapping,
// so that the value can be accessed with sync/atomic on every platform.
func Uint64At(memory []byte, offset int) (*uint64, error) {
	if err := checkCell(memory, offset, 8); err != nil {
		return nil, err
	}
	return (*uint64)(unsafe.Pointer(&memory[offset])), nil
}

func checkCell(memory []byte, offset, size int) error {
	if offset < 0 || offset+size > len(memory) {
		return fmt.Errorf("cell [%d, %d) is out of range [0, %d)", offset, offset+size, len(memory))
	}
	if addr := uintptr(unsafe.Pointer(&memory[offset])); addr%uintptr(size) != 0 {
		return fmt.Errorf("cell at %#x is not %d-byte aligned", addr, size)
	}
	return nil
}

// Use ensures, that p is kept live until that point.
func Use(p unsafe.Pointer) {
	runtime.KeepAlive(p)
}
