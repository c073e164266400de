// Copyright 2015 Aleksandr Demakin. All rights reserved.

//go:build linux
// +build linux

package shm

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/disk"
	"golang.org/x/sys/unix"
)

const (
	maxNameLen       = 255
	defaultShmPath   = "/dev/shm/"
	cShmfsSuperMagic = 0x01021994
	cRamfsMagic      = 0x858458f6
)

var (
	shmPathOnce sync.Once
	shmPath     string
)

type mountEntry struct {
	device string
	dir    string
	fsType string
	opts   string
	freq   int
	passno int
}

func doDestroyMemoryObject(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// shm objects on linux are regular files on a tmpfs mount.
func shmOpen(path string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, flag|unix.O_CLOEXEC|unix.O_NOFOLLOW, perm)
}

func shmName(name string) (string, error) {
	name = strings.TrimLeft(name, "/")
	nameLen := len(name)
	if nameLen == 0 || nameLen >= maxNameLen || strings.Contains(name, "/") {
		return "", errors.Errorf("invalid shm name %q", name)
	}
	dir, err := shmDirectory()
	if err != nil {
		return "", errors.Wrap(err, "error building shared memory name")
	}
	return dir + name, nil
}

func shmDirectory() (string, error) {
	shmPathOnce.Do(locateShmFs)
	if len(shmPath) == 0 {
		return shmPath, errors.New("error locating the shared memory path")
	}
	return shmPath, nil
}

func locateShmFs() {
	if checkShmPath(defaultShmPath) {
		shmPath = defaultShmPath
	} else {
		shmPath = shmFsFromMounts()
	}
}

func checkShmPath(path string) bool {
	if len(path) == 0 {
		return false
	}
	var statfs unix.Statfs_t
	if err := unix.Statfs(path, &statfs); err != nil {
		return false
	}
	return isShmFs(int64(statfs.Type))
}

func isShmFs(fsType int64) bool {
	return fsType == cShmfsSuperMagic || fsType == cRamfsMagic
}

// ensureFreeSpace checks, that the shm mount can hold size more bytes.
// tmpfs allocates pages lazily, so an oversized object would only fail
// with SIGBUS on first access to the missing pages.
func ensureFreeSpace(size int64) error {
	dir, err := shmDirectory()
	if err != nil {
		return err
	}
	usage, err := disk.Usage(dir)
	if err != nil {
		return errors.Wrapf(err, "failed to get usage of %s", dir)
	}
	if usage.Free < uint64(size) {
		return errors.Errorf("not enough space on %s: %d bytes free, %d requested", dir, usage.Free, size)
	}
	return nil
}

func shmFsFromMounts() string {
	var fsFile *os.File
	var err error
	if fsFile, err = os.Open("/proc/mounts"); err != nil {
		if fsFile, err = os.Open("/etc/fstab"); err != nil {
			return ""
		}
	}
	defer fsFile.Close()
	return shmFsFromReader(fsFile)
}

func shmFsFromReader(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		entry := parseMountEntry(scanner.Text())
		if entry == nil || (entry.fsType != "tmpfs" && entry.fsType != "shm") {
			continue
		}
		if checkShmPath(entry.dir) {
			if !strings.HasSuffix(entry.dir, "/") {
				return entry.dir + "/"
			}
			return entry.dir
		}
	}
	return ""
}

// parseMountEntry parses one fstab(5) line.
// It returns nil for comments and incomplete lines.
func parseMountEntry(line string) *mountEntry {
	fields := strings.Fields(line)
	if len(fields) < 6 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	freq, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil
	}
	passno, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil
	}
	return &mountEntry{
		device: fields[0],
		dir:    fields[1],
		fsType: fields[2],
		opts:   fields[3],
		freq:   freq,
		passno: passno,
	}
}
