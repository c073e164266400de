// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sync

import (
	"os"
	"unsafe"

	"github.com/nxgtw/scenelink"
	"github.com/nxgtw/scenelink/internal/allocator"
	"github.com/nxgtw/scenelink/internal/helper"
	"github.com/nxgtw/scenelink/mmf"
	"github.com/nxgtw/scenelink/shm"

	"github.com/pkg/errors"
)

var (
	_ IPCLocker           = (*Mutex)(nil)
	_ scenelink.Destroyer = (*Mutex)(nil)
)

// Mutex is an interprocess mutex, which state is kept in a shared memory object
// with the mutex's name. On linux waiting goroutines sleep on a futex,
// on other platforms they poll the state with short sleeps.
type Mutex struct {
	lwm    *lwMutex
	region *mmf.MemoryRegion
	name   string
}

// NewMutex creates a new mutex or opens an existing one.
//	name - object name.
//	flag - flag is a combination of open flags from 'os' package.
//	perm - object's permission bits.
// It returns the mutex and a flag whether it was created.
func NewMutex(name string, flag int, perm os.FileMode) (*Mutex, bool, error) {
	if err := ensureOpenFlags(flag); err != nil {
		return nil, false, err
	}
	region, created, err := helper.CreateWritableRegion(name, flag, perm, lockStateSize)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to create shared state")
	}
	result, err := newMutex(region, name)
	if err != nil {
		region.Close()
		return nil, false, err
	}
	return result, created, nil
}

// newMutex wraps a mapped state cell. The cell is never written here:
// a peer may already hold the lock, even if this process created the object.
func newMutex(region *mmf.MemoryRegion, name string) (*Mutex, error) {
	cell, err := allocator.Uint32At(region.Data(), 0)
	if err != nil {
		return nil, errors.Wrap(err, "invalid mutex state location")
	}
	ptr := unsafe.Pointer(cell)
	return &Mutex{
		lwm:    newLightweightMutex(ptr, newWaitWaker(ptr)),
		region: region,
		name:   name,
	}, nil
}

// Lock locks the mutex. It panics on an error.
func (m *Mutex) Lock() {
	m.lwm.lock()
}

// Unlock releases the mutex. It panics on an error, or if the mutex is not locked.
func (m *Mutex) Unlock() {
	m.lwm.unlock()
}

// Name returns the name of the mutex.
func (m *Mutex) Name() string {
	return m.name
}

// Close indicates, that the object is no longer in use,
// and that the underlying resources can be freed.
func (m *Mutex) Close() error {
	return m.region.Close()
}

// Destroy closes the mutex and removes its shared state.
func (m *Mutex) Destroy() error {
	if err := m.Close(); err != nil {
		return errors.Wrap(err, "failed to close shm region")
	}
	return DestroyMutex(m.name)
}

// DestroyMutex permanently removes mutex with the given name.
func DestroyMutex(name string) error {
	if err := shm.DestroyMemoryObject(name); err != nil {
		return errors.Wrap(err, "failed to destroy memory object")
	}
	return nil
}
