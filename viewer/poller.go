// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package viewer keeps a scene graph in sync with the consumer side of a channel.
package viewer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/nxgtw/scenelink/channel"
	"github.com/nxgtw/scenelink/wire"

	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Poller drains a channel into a scene.
// Poll and Run must not be called concurrently.
type Poller struct {
	lastPoll int64
	applied  uint64
	rcv      channel.Receiver
	scene    *Scene
	applier  *Applier
	cfg      Config
	log      *zap.Logger
}

// NewPoller returns a poller, which applies messages from rcv to scene.
func NewPoller(rcv channel.Receiver, scene *Scene, cfg Config) (*Poller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{
		rcv:     rcv,
		scene:   scene,
		applier: NewApplier(scene, log),
		cfg:     cfg,
		log:     log,
	}, nil
}

// Scene returns the scene, which is updated by the poller.
func (p *Poller) Scene() *Scene {
	return p.scene
}

// Poll applies up to Budget pending messages and returns their number.
// Payloads, which can not be decoded or applied, are logged and skipped.
// A channel error stops the poll and is returned.
func (p *Poller) Poll() (int, error) {
	m := p.cfg.Metrics
	applied := 0
	var err error
	for i := 0; i < p.cfg.Budget; i++ {
		var payload []byte
		payload, err = channel.ReceiveNext(p.rcv)
		if err != nil {
			if err == channel.ErrNoData {
				err = nil
			}
			break
		}
		msg, decodeErr := wire.Unmarshal(payload)
		if decodeErr != nil {
			m.observe(eventDecodeError)
			p.log.Warn("dropping malformed message", zap.Int("size", len(payload)), zap.Error(decodeErr))
			continue
		}
		if applyErr := p.applier.Apply(msg); applyErr != nil {
			m.observe(eventApplyError)
			p.log.Warn("dropping message", zap.Stringer("type", msg.Type), zap.Error(applyErr))
			continue
		}
		m.observe(eventApplied)
		applied++
	}
	atomic.AddUint64(&p.applied, uint64(applied))
	atomic.StoreInt64(&p.lastPoll, time.Now().UnixNano())
	m.observe(eventPoll)
	if err != nil {
		return applied, errors.Wrap(err, "receive failed")
	}
	return applied, nil
}

// Run polls every Interval until ctx is done or the channel fails.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()
	for {
		if _, err := p.Poll(); err != nil {
			p.log.Error("poll failed", zap.Error(err))
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Applied returns the total number of applied messages.
func (p *Poller) Applied() uint64 {
	return atomic.LoadUint64(&p.applied)
}

// LastPoll returns the time of the last completed poll, or zero time.
func (p *Poller) LastPoll() time.Time {
	ns := atomic.LoadInt64(&p.lastPoll)
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// ReadinessCheck reports an error, if there was no poll during maxAge.
func (p *Poller) ReadinessCheck(maxAge time.Duration) healthcheck.Check {
	return func() error {
		last := p.LastPoll()
		if last.IsZero() {
			return errors.New("no polls yet")
		}
		if age := time.Since(last); age > maxAge {
			return errors.Errorf("last poll was %v ago", age)
		}
		return nil
	}
}
