// Copyright 2016 Aleksandr Demakin. All rights reserved.

package main

import (
	"strconv"
	"time"

	"github.com/nxgtw/scenelink/channel"

	"github.com/pkg/errors"
)

type benchArgs struct {
	role       channel.Role
	sleep      time.Duration
	capacityMB int
	count      int
	// length is 0 for random lengths.
	length int
}

func parseArgs(args []string) (benchArgs, error) {
	var result benchArgs
	if len(args) != 5 {
		return result, errors.Errorf("must provide exactly 5 arguments, got %d", len(args))
	}
	var err error
	if result.role, err = channel.ParseRole(args[0]); err != nil {
		return result, err
	}
	sleepMs, err := strconv.Atoi(args[1])
	if err != nil || sleepMs < 0 {
		return result, errors.Errorf("invalid sleep value %q", args[1])
	}
	result.sleep = time.Duration(sleepMs) * time.Millisecond
	if result.capacityMB, err = strconv.Atoi(args[2]); err != nil || result.capacityMB <= 0 {
		return result, errors.Errorf("invalid capacity %q", args[2])
	}
	if result.count, err = strconv.Atoi(args[3]); err != nil || result.count < 0 {
		return result, errors.Errorf("invalid message count %q", args[3])
	}
	if args[4] != "random" {
		if result.length, err = strconv.Atoi(args[4]); err != nil || result.length <= 0 {
			return result, errors.Errorf("invalid length %q", args[4])
		}
	}
	return result, nil
}

// randomLimit returns the upper bound of random payload lengths.
func (a benchArgs) randomLimit(maxPayload int) int {
	limit := (a.capacityMB/2 - 1) << 20
	if limit < 1 || limit > maxPayload {
		limit = maxPayload
	}
	return limit
}
