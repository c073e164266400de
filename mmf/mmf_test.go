// Copyright 2015 Aleksandr Demakin. All rights reserved.

package mmf

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFileSize = 3 * 65536

func makeTestFile(t *testing.T) *os.File {
	path := filepath.Join(t.TempDir(), "test.bin")
	data := make([]byte, testFileSize)
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, os.WriteFile(path, data, 0644))
	file, err := os.OpenFile(path, os.O_RDWR, 0644)
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file
}

func TestMmfOpen(t *testing.T) {
	a := assert.New(t)
	file := makeTestFile(t)
	mr, err := NewMemoryRegion(file, MEM_READ_ONLY, 0, testFileSize)
	require.NoError(t, err)
	a.NoError(mr.Close())
	mr, err = NewMemoryRegion(file, MEM_READ_ONLY, 0, 0)
	require.NoError(t, err)
	a.Equal(testFileSize, mr.Size())
	a.NoError(mr.Close())
	mr, err = NewMemoryRegion(file, MEM_READ_ONLY, 67746, testFileSize-67746)
	a.NoError(err)
	a.NoError(mr.Close())
	mr, err = NewMemoryRegion(file, MEM_READ_ONLY, testFileSize-1024, 1024)
	a.NoError(err)
	a.NoError(mr.Close())
	_, err = NewMemoryRegion(file, MEM_READ_ONLY, testFileSize-1024, 1025)
	a.Error(err)
	_, err = NewMemoryRegion(file, 42, 0, 1024)
	a.Error(err)
}

func TestMmfOpenReadonly(t *testing.T) {
	const offset = 67746
	file := makeTestFile(t)
	region, err := NewMemoryRegion(file, MEM_READ_ONLY, offset, 1024)
	require.NoError(t, err)
	defer region.Close()
	assert.Equal(t, 1024, region.Size())
	for i := 0; i < 1024; i++ {
		if !assert.Equal(t, byte(i+offset), region.Data()[i]) {
			break
		}
	}
}

func TestMmfReadWrite(t *testing.T) {
	a := assert.New(t)
	file := makeTestFile(t)
	rw, err := NewMemoryRegion(file, MEM_READWRITE, 0, 4096)
	require.NoError(t, err)
	defer rw.Close()
	ro, err := NewMemoryRegion(file, MEM_READ_ONLY, 0, 4096)
	require.NoError(t, err)
	defer ro.Close()

	binary.LittleEndian.PutUint64(rw.Data(), 0xdeadbeef)
	a.NoError(rw.Flush(false))

	reader := NewMemoryRegionReader(ro)
	var value uint64
	a.NoError(binary.Read(reader.Section(0, 8), binary.LittleEndian, &value))
	a.Equal(uint64(0xdeadbeef), value)

	var tail [16]byte
	n, err := reader.Section(4090, 16).Read(tail[:])
	a.Equal(6, n)
	a.Equal(io.EOF, err)
	_, err = reader.Section(4096, 16).Read(tail[:])
	a.Equal(io.EOF, err)
}

func TestMmfCopyOnWrite(t *testing.T) {
	a := assert.New(t)
	file := makeTestFile(t)
	cow, err := NewMemoryRegion(file, MEM_COPY_ON_WRITE, 0, 4096)
	require.NoError(t, err)
	defer cow.Close()
	ro, err := NewMemoryRegion(file, MEM_READ_ONLY, 0, 4096)
	require.NoError(t, err)
	defer ro.Close()
	cow.Data()[1] = 0xff
	a.Equal(byte(1), ro.Data()[1])
}

func TestMmfClose(t *testing.T) {
	a := assert.New(t)
	file := makeTestFile(t)
	region, err := NewMemoryRegion(file, MEM_READ_ONLY, 0, 1024)
	require.NoError(t, err)
	a.NoError(region.Close())
	a.NoError(region.Close())
	a.Nil(region.Data())
	a.Error(region.Flush(false))
	UseMemoryRegion(region)
}
