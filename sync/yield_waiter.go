// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sync

import (
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"
)

const yieldSleep = 50 * time.Microsecond

// yieldWaiter is a waitWaker for platforms without a cross-process wait primitive.
// Waiters poll the lock word and there is nobody to wake up.
type yieldWaiter struct {
	ptr *uint32
}

func (w *yieldWaiter) wait(value uint32) error {
	if atomic.LoadUint32(w.ptr) != value {
		return nil
	}
	runtime.Gosched()
	time.Sleep(yieldSleep)
	return nil
}

func (w *yieldWaiter) wake(count int32) (int, error) {
	return 0, nil
}

func newYieldWaiter(ptr unsafe.Pointer) waitWaker {
	return &yieldWaiter{ptr: (*uint32)(ptr)}
}
