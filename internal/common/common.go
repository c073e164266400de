// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package common contains helpers shared by the ipc object implementations.
package common

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// OpenOrCreate performs open/create actions depending on the flag:
//	os.O_CREATE|os.O_EXCL - the object must be created.
//	os.O_CREATE - the object is opened, if it exists, and created otherwise.
//	0 - the object must exist.
// creator is called with true to create a new object exclusively, and with false
// to open an existing one. It returns true, if the object was created.
func OpenOrCreate(creator func(bool) error, flag int) (bool, error) {
	flag = flag & (os.O_CREATE | os.O_EXCL)
	switch flag {
	case 0:
		return false, creator(false)
	case os.O_CREATE | os.O_EXCL:
		if err := creator(true); err != nil {
			return false, err
		}
		return true, nil
	case os.O_CREATE:
		const attempts = 16
		var err error
		for attempt := 0; attempt < attempts; attempt++ {
			if err = creator(true); !os.IsExist(err) {
				return err == nil, err
			}
			if err = creator(false); !os.IsNotExist(err) {
				return false, err
			}
		}
		return false, err
	default:
		return false, errors.Errorf("unknown open mode %d", flag)
	}
}

// FlagsForOpen strips creation flags from flag and adds read-write access.
func FlagsForOpen(flag int) int {
	return (flag & ^(os.O_CREATE | os.O_EXCL)) | os.O_RDWR
}

// SyscallErrHasCode returns true, if given error is a syscall error with given code.
func SyscallErrHasCode(err error, code syscall.Errno) bool {
	if sysErr, ok := errors.Cause(err).(*os.SyscallError); ok {
		if errno, ok := sysErr.Err.(syscall.Errno); ok {
			return errno == code
		}
	}
	if errno, ok := errors.Cause(err).(syscall.Errno); ok {
		return errno == code
	}
	return false
}
