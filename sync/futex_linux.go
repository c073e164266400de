// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux
// +build linux

package sync

import (
	"os"
	"unsafe"

	"github.com/nxgtw/scenelink/internal/allocator"
	"github.com/nxgtw/scenelink/internal/common"

	"golang.org/x/sys/unix"
)

const (
	cFUTEX_WAIT = 0
	cFUTEX_WAKE = 1
)

// futex is a waitWaker over a linux futex word.
// The word lives in shared memory, so FUTEX_PRIVATE_FLAG must not be used.
type futex struct {
	ptr unsafe.Pointer
}

func (f *futex) wait(value uint32) error {
	_, err := sysFutex(f.ptr, cFUTEX_WAIT, value, nil)
	if err == nil || common.SyscallErrHasCode(err, unix.EWOULDBLOCK) || common.IsInterruptedSyscallErr(err) {
		return nil
	}
	return err
}

func (f *futex) wake(count int32) (int, error) {
	woken, err := sysFutex(f.ptr, cFUTEX_WAKE, uint32(count), nil)
	return int(woken), err
}

func newWaitWaker(ptr unsafe.Pointer) waitWaker {
	return &futex{ptr: ptr}
}

func sysFutex(addr unsafe.Pointer, op int32, val uint32, ts unsafe.Pointer) (int32, error) {
	r1, _, err := unix.Syscall6(unix.SYS_FUTEX,
		uintptr(addr),
		uintptr(op),
		uintptr(val),
		uintptr(ts),
		0,
		0)
	allocator.Use(addr)
	allocator.Use(ts)
	if err != 0 {
		return 0, os.NewSyscallError("FUTEX", err)
	}
	return int32(r1), nil
}
