// Copyright 2016 Aleksandr Demakin. All rights reserved.

package channel

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Role is a side of the channel. It is fixed when the channel is opened.
type Role int

const (
	// Producer is the only side, which sends messages.
	Producer Role = iota + 1
	// Consumer is the only side, which receives messages.
	Consumer
)

// String returns the name of the role.
func (r Role) String() string {
	switch r {
	case Producer:
		return "producer"
	case Consumer:
		return "consumer"
	default:
		return "unknown"
	}
}

// ParseRole converts a role name into Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "producer":
		return Producer, nil
	case "consumer":
		return Consumer, nil
	default:
		return 0, errors.Errorf("unknown role %q", s)
	}
}

const (
	// MinCapacity is the smallest allowed data area size.
	MinCapacity = 4 * alignment
	// DefaultCapacity is a capacity of the DefaultConfig.
	DefaultCapacity = 16 << 20
)

// Config holds channel parameters. Both sides must use the same Name and Capacity.
type Config struct {
	// Name is the name of the shared memory object. The lock is named Name + ".locker".
	Name string
	// Capacity is the size of the data area in bytes.
	// It must be a multiple of 64 and not less, than MinCapacity.
	Capacity int
	Role     Role
	// Perm is used for the objects, which are created by this side.
	Perm os.FileMode
	// Logger is used for lifecycle events. nil disables logging.
	Logger *zap.Logger
	// Metrics is updated on every send and receive. nil disables collection.
	Metrics *Metrics
}

// DefaultConfig returns a config with default capacity and permissions.
func DefaultConfig(name string, role Role) Config {
	return Config{
		Name:     name,
		Capacity: DefaultCapacity,
		Role:     role,
		Perm:     0666,
	}
}

// CapacityFromMB converts a capacity given in megabytes into bytes.
func CapacityFromMB(mb int) int {
	return mb << 20
}

// Validate checks the config.
func (c Config) Validate() error {
	if len(c.Name) == 0 {
		return errors.Wrap(ErrInvalidConfig, "empty name")
	}
	if c.Capacity < MinCapacity || c.Capacity%alignment != 0 {
		return errors.Wrapf(ErrInvalidConfig, "capacity %d must be a multiple of %d and at least %d", c.Capacity, alignment, MinCapacity)
	}
	if c.Role != Producer && c.Role != Consumer {
		return errors.Wrapf(ErrInvalidConfig, "role %d", c.Role)
	}
	return nil
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c Config) perm() os.FileMode {
	if c.Perm == 0 {
		return 0666
	}
	return c.Perm
}
