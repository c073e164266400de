// Copyright 2016 Aleksandr Demakin. All rights reserved.

package mmf

import (
	"bytes"
	"io"
)

// MemoryRegionReader is a reader for safe operations over a shared memory region.
// It holds a reference to the region, so the former can't be gc'ed.
type MemoryRegionReader struct {
	region *MemoryRegion
	*bytes.Reader
}

// NewMemoryRegionReader creates a new reader for the given region.
func NewMemoryRegionReader(region *MemoryRegion) *MemoryRegionReader {
	return &MemoryRegionReader{
		region: region,
		Reader: bytes.NewReader(region.Data()),
	}
}

// Section returns a reader limited to n bytes starting at off.
func (r *MemoryRegionReader) Section(off, n int64) *io.SectionReader {
	return io.NewSectionReader(r, off, n)
}
