// Copyright 2015 Aleksandr Demakin. All rights reserved.

package shm

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testObjectName = "scenelink-shm-test"

func TestCreateMemoryObject(t *testing.T) {
	a := assert.New(t)
	a.NoError(DestroyMemoryObject(testObjectName))
	obj, err := NewMemoryObject(testObjectName, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0666)
	require.NoError(t, err)
	a.Equal(testObjectName, obj.Name())
	a.Equal(int64(0), obj.Size())
	a.NoError(obj.Truncate(1024))
	a.Equal(int64(1024), obj.Size())

	_, err = NewMemoryObject(testObjectName, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0666)
	a.True(os.IsExist(err))

	a.NoError(obj.Destroy())
	_, err = NewMemoryObject(testObjectName, os.O_RDWR, 0666)
	a.True(os.IsNotExist(err))
}

func TestDestroyMissingObject(t *testing.T) {
	assert.NoError(t, DestroyMemoryObject("scenelink-shm-missing"))
}

func TestNewMemoryObjectSize(t *testing.T) {
	a := assert.New(t)
	DestroyMemoryObject(testObjectName)
	defer DestroyMemoryObject(testObjectName)

	_, _, err := NewMemoryObjectSize(testObjectName, 0, 0666, 512)
	a.Error(err)

	obj, created, err := NewMemoryObjectSize(testObjectName, os.O_CREATE, 0666, 512)
	require.NoError(t, err)
	a.True(created)
	a.Equal(int64(512), obj.Size())
	a.NoError(obj.Close())

	obj, created, err = NewMemoryObjectSize(testObjectName, os.O_CREATE, 0666, 512)
	require.NoError(t, err)
	a.False(created)
	a.NoError(obj.Close())

	_, _, err = NewMemoryObjectSize(testObjectName, os.O_CREATE|os.O_EXCL, 0666, 512)
	a.Error(err)

	_, _, err = NewMemoryObjectSize(testObjectName, 0, 0666, 1024)
	a.Error(err)
}
