// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build !linux
// +build !linux

package sync

import "unsafe"

func newWaitWaker(ptr unsafe.Pointer) waitWaker {
	return newYieldWaiter(ptr)
}
