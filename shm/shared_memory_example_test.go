// Copyright 2016 Aleksandr Demakin. All rights reserved.

package shm

import (
	"fmt"
	"os"

	"github.com/nxgtw/scenelink/mmf"
)

func ExampleMemoryObject() {
	// cleanup previous objects
	DestroyMemoryObject("scenelink-example")
	// create new object and resize it.
	obj, err := NewMemoryObject("scenelink-example", os.O_CREATE|os.O_EXCL|os.O_RDWR, 0666)
	if err != nil {
		panic("new")
	}
	defer obj.Destroy()
	if err := obj.Truncate(1024); err != nil {
		panic("truncate")
	}
	// create two regions for reading and writing.
	rwRegion, err := mmf.NewMemoryRegion(obj, mmf.MEM_READWRITE, 0, 1024)
	if err != nil {
		panic("new region")
	}
	defer rwRegion.Close()
	roRegion, err := mmf.NewMemoryRegion(obj, mmf.MEM_READ_ONLY, 0, 1024)
	if err != nil {
		panic("new region")
	}
	defer roRegion.Close()
	// write via the first region and read it via the second one.
	copy(rwRegion.Data(), []byte{1, 2, 3, 4})
	fmt.Println(roRegion.Data()[:4])
	// Output: [1 2 3 4]
}
