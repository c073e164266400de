// Copyright 2015 Aleksandr Demakin. All rights reserved.

//go:build darwin || freebsd || linux
// +build darwin freebsd linux

package shm

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

type memoryObject struct {
	file *os.File
}

func newMemoryObject(name string, flag int, perm os.FileMode) (*memoryObject, error) {
	path, err := shmName(name)
	if err != nil {
		return nil, err
	}
	file, err := shmOpen(path, flag, perm)
	if err != nil {
		return nil, err
	}
	return &memoryObject{file: file}, nil
}

// Destroy closes the object and removes it.
func (obj *memoryObject) Destroy() error {
	if int(obj.Fd()) >= 0 {
		if err := obj.Close(); err != nil {
			return err
		}
	}
	return doDestroyMemoryObject(obj.file.Name())
}

// Name returns the name of the object as it was given to NewMemoryObject.
func (obj *memoryObject) Name() string {
	result := filepath.Base(obj.file.Name())
	// darwin appends '\t<euid>' to the name.
	if runtime.GOOS == "darwin" {
		if idx := strings.LastIndex(result, "\t"); idx >= 0 {
			result = result[:idx]
		}
	}
	return result
}

// Close closes object's file descriptor. The object itself persists.
func (obj *memoryObject) Close() error {
	return obj.file.Close()
}

// Truncate resizes the object.
func (obj *memoryObject) Truncate(size int64) error {
	return obj.file.Truncate(size)
}

// Size returns the current object size, or 0 if it cannot be determined.
func (obj *memoryObject) Size() int64 {
	fileInfo, err := obj.file.Stat()
	if err != nil {
		return 0
	}
	return fileInfo.Size()
}

// Fd returns a descriptor of the object, which can be passed to mmap.
func (obj *memoryObject) Fd() uintptr {
	return obj.file.Fd()
}

func destroyMemoryObject(name string) error {
	path, err := shmName(name)
	if err != nil {
		return err
	}
	return doDestroyMemoryObject(path)
}
