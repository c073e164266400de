// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package sync implements interprocess mutexes placed into named shared memory objects.
package sync

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// IPCLocker is a minimal interface, which must be satisfied by any synchronization primitive
// on any platform.
type IPCLocker interface {
	sync.Locker
	io.Closer
}

// lockStateSize is the size of the shared memory cell of a mutex.
// A zero-filled cell is an unlocked mutex.
const lockStateSize = 4

func ensureOpenFlags(flag int) error {
	if flag & ^(os.O_CREATE|os.O_EXCL) != 0 {
		return errors.Errorf("invalid open flags %#x", flag)
	}
	return nil
}
