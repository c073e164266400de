// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package mmf provides memory mappings of files and shared memory objects.
package mmf

import (
	"os"
	"runtime"
	"unsafe"

	"github.com/nxgtw/scenelink/internal/allocator"

	"github.com/pkg/errors"
)

// Memory region modes.
const (
	MEM_READ_ONLY = iota
	MEM_READ_PRIVATE
	MEM_READWRITE
	MEM_COPY_ON_WRITE
)

var (
	mmapOffsetMultiple int64
)

// MemoryRegion is a mmapped area of a memory object.
// Warning. The internal object has a finalizer set,
// so the region will be unmapped during the gc.
// Thus, you should be careful getting internal data.
// For example, the following code may crash:
//	func f() {
//		region := NewMemoryRegion(...)
//		return g(region.Data())
//	}
// region may be gc'ed while its data is used by g().
// To avoid this, you can use UseMemoryRegion() or region readers/writers.
type MemoryRegion struct {
	*memoryRegion
}

// Mappable is a named object, which can return a handle,
// that can be used as a file descriptor for mmap.
type Mappable interface {
	Fd() uintptr
	Name() string
}

// NewMemoryRegion creates a new shared memory region.
//	object - an object to mmap.
//	mode - open mode. see MEM_* constants
//	offset - offset in bytes from the beginning of the mmaped file
//	size - mapping size. 0 means the rest of the object.
func NewMemoryRegion(object Mappable, mode int, offset int64, size int) (*MemoryRegion, error) {
	impl, err := newMemoryRegion(object, mode, offset, size)
	if err != nil {
		return nil, err
	}
	result := &MemoryRegion{impl}
	runtime.SetFinalizer(impl, func(region *memoryRegion) {
		region.Close()
	})
	return result, nil
}

// Close unmaps the regions so that it cannot be longer used.
func (region *MemoryRegion) Close() error {
	return region.memoryRegion.Close()
}

// Data returns region's mapped data.
func (region *MemoryRegion) Data() []byte {
	return region.memoryRegion.Data()
}

// Flush syncs mapped content with the object data.
func (region *MemoryRegion) Flush(async bool) error {
	return region.memoryRegion.Flush(async)
}

// Size returns mapping size.
func (region *MemoryRegion) Size() int {
	return region.memoryRegion.Size()
}

// UseMemoryRegion ensures, that the object is still alive at the moment of the call.
//	region := NewMemoryRegion(...)
//	defer UseMemoryRegion(region)
//	data := region.Data()
//	{ work with data }
func UseMemoryRegion(region *MemoryRegion) {
	allocator.Use(unsafe.Pointer(region))
}

// calcMmapOffsetFixup returns a value X,
// so that offset - X is a valid mmap offset.
func calcMmapOffsetFixup(offset int64) int64 {
	return offset - (offset/mmapOffsetMultiple)*mmapOffsetMultiple
}

type sizer interface {
	Size() int64
}

// fileInfoGetter is used to obtain file's size.
type fileInfoGetter interface {
	Stat() (os.FileInfo, error)
}

func objectSize(f Mappable) int64 {
	switch typed := f.(type) {
	case sizer:
		return typed.Size()
	case fileInfoGetter:
		if fi, err := typed.Stat(); err == nil {
			return fi.Size()
		}
	}
	return 0
}

func checkMmapSize(f Mappable, offset int64, size int) (int, error) {
	if size < 0 || offset < 0 {
		return 0, errors.Errorf("invalid mapping offset %d and size %d", offset, size)
	}
	objSize := objectSize(f)
	if size == 0 {
		if objSize <= offset {
			return 0, errors.New("must provide a valid mapping size")
		}
		return int(objSize - offset), nil
	}
	// mmap accepts lengths past the end of the object,
	// access to those pages raises SIGBUS.
	if objSize > 0 && int64(size)+offset > objSize {
		return 0, errors.Errorf("invalid mapping length %d at offset %d for object of size %d", size, offset, objSize)
	}
	return size, nil
}
