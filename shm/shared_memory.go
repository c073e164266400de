// Copyright 2015 Aleksandr Demakin. All rights reserved.

package shm

import (
	"os"
	"runtime"
	"time"

	"github.com/nxgtw/scenelink/internal/common"

	"github.com/pkg/errors"
)

// MemoryObject represents an object which can be used to
// map shared memory regions into the process' address space.
type MemoryObject struct {
	*memoryObject
}

// NewMemoryObject creates a new shared memory object.
//	name - a name of the object. should not contain '/' and exceed 255 symbols.
//	flag - flag is a combination of open flags from 'os' package.
//	perm - file's mode and permission bits.
func NewMemoryObject(name string, flag int, perm os.FileMode) (*MemoryObject, error) {
	impl, err := newMemoryObject(name, flag, perm)
	if err != nil {
		return nil, err
	}
	result := &MemoryObject{impl}
	runtime.SetFinalizer(impl, func(memObject *memoryObject) {
		memObject.Close()
	})
	return result, nil
}

// NewMemoryObjectSize opens or creates a shared memory object with the given size.
// If the object was created, it is truncated to size, after the shm filesystem
// has been checked to have enough room for it.
// If the object already existed, its size must be equal to size.
// It returns the object and a flag whether it was created.
func NewMemoryObjectSize(name string, flag int, perm os.FileMode, size int64) (*MemoryObject, bool, error) {
	var obj *MemoryObject
	creator := func(create bool) error {
		var err error
		creatorFlag := common.FlagsForOpen(flag)
		if create {
			creatorFlag |= os.O_CREATE | os.O_EXCL
		}
		obj, err = NewMemoryObject(name, creatorFlag, perm)
		return errors.Cause(err)
	}
	created, resultErr := common.OpenOrCreate(creator, flag)
	if resultErr != nil {
		return nil, false, errors.Wrap(resultErr, "failed to open or create shm object")
	}
	defer func() {
		if resultErr != nil {
			obj.Close()
			if created {
				obj.Destroy()
			}
		}
	}()
	if created {
		if resultErr = ensureFreeSpace(size); resultErr != nil {
			return nil, false, resultErr
		}
		if resultErr = obj.Truncate(size); resultErr != nil {
			return nil, false, errors.Wrap(resultErr, "failed to truncate shm object")
		}
	} else if resultErr = waitForSize(obj, size); resultErr != nil {
		return nil, false, resultErr
	}
	return obj, created, nil
}

const (
	sizeWaitAttempts = 50
	sizeWaitInterval = 10 * time.Millisecond
)

// waitForSize checks, that an opened object has the given size.
// An object of zero size may have just been created by another process,
// which has not truncated it yet, so it is polled for a while.
func waitForSize(obj *MemoryObject, size int64) error {
	for attempt := 0; attempt < sizeWaitAttempts; attempt++ {
		existing := obj.Size()
		if existing == size {
			return nil
		}
		if existing != 0 {
			return errors.Errorf("existing object has size %d, expected %d", existing, size)
		}
		time.Sleep(sizeWaitInterval)
	}
	return errors.Errorf("existing object has zero size, expected %d", size)
}

// DestroyMemoryObject permanently removes given memory object.
// Removing an object, which does not exist, is not an error.
func DestroyMemoryObject(name string) error {
	return destroyMemoryObject(name)
}
