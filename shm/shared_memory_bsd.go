// Copyright 2015 Aleksandr Demakin. All rights reserved.

//go:build darwin || freebsd
// +build darwin freebsd

package shm

import (
	"fmt"
	"os"
	"runtime"
	"syscall"
	"unsafe"

	"github.com/nxgtw/scenelink/internal/allocator"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func doDestroyMemoryObject(path string) error {
	err := shmUnlink(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func shmName(name string) (string, error) {
	const maxNameLen = 30
	if len(name) == 0 {
		return "", errors.New("invalid shm name")
	}
	if runtime.GOOS == "darwin" {
		if newName := fmt.Sprintf("%s\t%d", name, unix.Geteuid()); len(newName) < maxNameLen {
			name = newName
		}
	}
	return "/" + name, nil
}

func shmOpen(path string, flag int, perm os.FileMode) (*os.File, error) {
	nameBytes, err := unix.BytePtrFromString(path)
	if err != nil {
		return nil, err
	}
	bytes := unsafe.Pointer(nameBytes)
	fd, _, errno := unix.Syscall(unix.SYS_SHM_OPEN, uintptr(bytes), uintptr(flag|unix.O_CLOEXEC), uintptr(perm))
	allocator.Use(bytes)
	if errno != syscall.Errno(0) {
		return nil, &os.PathError{Path: path, Op: "shm_open", Err: errno}
	}
	return os.NewFile(fd, path), nil
}

func shmUnlink(path string) error {
	nameBytes, err := unix.BytePtrFromString(path)
	if err != nil {
		return err
	}
	bytes := unsafe.Pointer(nameBytes)
	_, _, errno := unix.Syscall(unix.SYS_SHM_UNLINK, uintptr(bytes), 0, 0)
	allocator.Use(bytes)
	if errno != syscall.Errno(0) {
		return &os.PathError{Path: path, Op: "shm_unlink", Err: errno}
	}
	return nil
}

// tmpfs limits can not be queried for posix shm on bsd.
func ensureFreeSpace(size int64) error {
	return nil
}
