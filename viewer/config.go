// Copyright 2016 Aleksandr Demakin. All rights reserved.

package viewer

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrInvalidConfig is returned for bad poller parameters.
var ErrInvalidConfig = errors.New("invalid viewer config")

const (
	// DefaultBudget is the number of messages applied in one poll.
	DefaultBudget = 20
	// DefaultInterval is a poll period of about 60 frames per second.
	DefaultInterval = 16 * time.Millisecond
)

// Config holds poller parameters.
type Config struct {
	// Budget limits the number of messages applied in one poll,
	// so that a busy producer can not stall a frame.
	Budget int
	// Interval is the period of Run.
	Interval time.Duration
	Logger   *zap.Logger
	// Metrics may be nil.
	Metrics *Metrics
}

// DefaultConfig returns a config with the default budget and interval.
func DefaultConfig() Config {
	return Config{Budget: DefaultBudget, Interval: DefaultInterval}
}

// Validate checks the config.
func (c Config) Validate() error {
	if c.Budget <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "budget %d", c.Budget)
	}
	if c.Interval <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "interval %v", c.Interval)
	}
	return nil
}
