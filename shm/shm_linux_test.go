// Copyright 2015 Aleksandr Demakin. All rights reserved.

//go:build linux
// +build linux

package shm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShmFsFromReader(t *testing.T) {
	const (
		testData = `
			#
			# /etc/fstab
			# name dir type opts freq passno
			UUID=cd459033-ae0a-4fb4-96fb-2323365a8e21 /                       ext4    defaults        1 1
			UUID=4542ef12-df3d-4336-9d12-740763854139 /boot                   ext4    defaults        1 2
			UUID=53d61062-7b6b-4f5b-80fd-7baf4017f96d swap                    swap    defaults        0 0
			tmpfs /dev/shm tmpfs rw,seclabel,nosuid,nodev 0 0
		`
		testData2 = "tmpfs /dev/shm nottmpfs rw,seclabel,nosuid,nodev 0 0"
	)
	if !checkShmPath(defaultShmPath) {
		t.Skip("/dev/shm is not a tmpfs mount")
	}
	assert.Equal(t, "/dev/shm/", shmFsFromReader(strings.NewReader(testData)))
	assert.Empty(t, shmFsFromReader(strings.NewReader(testData2)))
}

func TestParseMountEntry(t *testing.T) {
	a := assert.New(t)
	a.Nil(parseMountEntry("# tmpfs /dev/shm tmpfs rw 0 0"))
	a.Nil(parseMountEntry("tmpfs /dev/shm tmpfs"))
	a.Nil(parseMountEntry("tmpfs /dev/shm tmpfs rw x 0"))
	entry := parseMountEntry("tmpfs /run/shm tmpfs rw,nosuid 0 2")
	if a.NotNil(entry) {
		a.Equal("tmpfs", entry.device)
		a.Equal("/run/shm", entry.dir)
		a.Equal("tmpfs", entry.fsType)
		a.Equal(2, entry.passno)
	}
}

func TestShmFsFromMountPoints(t *testing.T) {
	dir, err := shmDirectory()
	assert.NoError(t, err)
	assert.NotEmpty(t, dir)
}

func TestEnsureFreeSpace(t *testing.T) {
	a := assert.New(t)
	a.NoError(ensureFreeSpace(4096))
	a.Error(ensureFreeSpace(1 << 62))
}

func TestShmNameValidation(t *testing.T) {
	a := assert.New(t)
	_, err := shmName("")
	a.Error(err)
	_, err = shmName("a/b")
	a.Error(err)
	_, err = shmName(strings.Repeat("x", maxNameLen))
	a.Error(err)
	path, err := shmName("/scenelink")
	a.NoError(err)
	a.True(strings.HasSuffix(path, "/scenelink"))
}
