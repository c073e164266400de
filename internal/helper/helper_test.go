// Copyright 2016 Aleksandr Demakin. All rights reserved.

package helper

import (
	"os"
	"testing"

	"github.com/nxgtw/scenelink/shm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRegionName = "scenelink-helper-test"

func TestCreateWritableRegion(t *testing.T) {
	a := assert.New(t)
	shm.DestroyMemoryObject(testRegionName)
	defer shm.DestroyMemoryObject(testRegionName)

	first, created, err := CreateWritableRegion(testRegionName, os.O_CREATE|os.O_EXCL, 0666, 128)
	require.NoError(t, err)
	defer first.Close()
	a.True(created)
	a.Equal(128, first.Size())

	second, created, err := CreateWritableRegion(testRegionName, os.O_CREATE, 0666, 128)
	require.NoError(t, err)
	defer second.Close()
	a.False(created)

	first.Data()[5] = 42
	a.Equal(byte(42), second.Data()[5])

	_, _, err = CreateWritableRegion(testRegionName, 0, 0666, 256)
	a.Error(err)

	ro, err := OpenReadOnlyRegion(testRegionName)
	require.NoError(t, err)
	defer ro.Close()
	a.Equal(128, ro.Size())
	a.Equal(byte(42), ro.Data()[5])
}
