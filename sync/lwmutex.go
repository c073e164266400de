// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sync

import (
	"sync/atomic"
	"unsafe"
)

const (
	lwmSpinCount         = 100
	lwmUnlocked          = uint32(0)
	lwmLockedNoWaiters   = uint32(1)
	lwmLockedHaveWaiters = uint32(2)
)

// waitWaker is an object, which implements wake/wait semantics.
type waitWaker interface {
	wake(count int32) (int, error)
	// wait sleeps while the state word is equal to value. Spurious wakeups are allowed.
	wait(value uint32) error
}

// lwMutex is a lightweight mutex implementation operating on a uint32 memory cell.
// It tries to minimize amount of syscalls needed to do locking.
// Actual sleeping must be implemented by a waitWaker object.
// See 'Futexes Are Tricky' by Ulrich Drepper, mutex #3.
// The zero value of the cell is lwmUnlocked, so a freshly truncated
// shared object needs no initialization.
type lwMutex struct {
	ptr *uint32
	ww  waitWaker
}

func newLightweightMutex(ptr unsafe.Pointer, ww waitWaker) *lwMutex {
	return &lwMutex{ptr: (*uint32)(ptr), ww: ww}
}

func (lwm *lwMutex) lock() {
	if err := lwm.doLock(); err != nil {
		panic(err)
	}
}

func (lwm *lwMutex) tryLock() bool {
	return atomic.CompareAndSwapUint32(lwm.ptr, lwmUnlocked, lwmLockedNoWaiters)
}

func (lwm *lwMutex) doLock() error {
	for i := 0; i < lwmSpinCount; i++ {
		if lwm.tryLock() {
			return nil
		}
	}
	old := atomic.LoadUint32(lwm.ptr)
	if old != lwmLockedHaveWaiters {
		old = atomic.SwapUint32(lwm.ptr, lwmLockedHaveWaiters)
	}
	for old != lwmUnlocked {
		if err := lwm.ww.wait(lwmLockedHaveWaiters); err != nil {
			return err
		}
		old = atomic.SwapUint32(lwm.ptr, lwmLockedHaveWaiters)
	}
	return nil
}

func (lwm *lwMutex) unlock() {
	if old := atomic.LoadUint32(lwm.ptr); old == lwmLockedHaveWaiters {
		atomic.StoreUint32(lwm.ptr, lwmUnlocked)
	} else {
		if old == lwmUnlocked {
			panic("unlock of unlocked mutex")
		}
		if atomic.SwapUint32(lwm.ptr, lwmUnlocked) == lwmLockedNoWaiters {
			return
		}
	}
	// give a spinning locker a chance to take the mutex without a syscall.
	for i := 0; i < lwmSpinCount; i++ {
		if atomic.LoadUint32(lwm.ptr) != lwmUnlocked {
			if atomic.CompareAndSwapUint32(lwm.ptr, lwmLockedNoWaiters, lwmLockedHaveWaiters) {
				return
			}
		}
	}
	if _, err := lwm.ww.wake(1); err != nil {
		panic(err)
	}
}
