// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package scene turns scene edits into wire messages and streams them
// into the producer side of a channel.
package scene

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nxgtw/scenelink/channel"
	"github.com/nxgtw/scenelink/wire"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap"
)

// Publisher errors.
var (
	ErrClosed     = errors.New("publisher is closed")
	ErrQueueFull  = errors.New("publisher queue is full")
	ErrInvalidCfg = errors.New("invalid publisher config")
)

const pollTimeout = 100 * time.Millisecond

// Config holds publisher parameters.
type Config struct {
	// QueueSize is the number of encoded messages, which may wait for the channel.
	// It is rounded up to a power of two.
	QueueSize uint64
	// RetryInterval is the pause between send attempts, while the channel is full.
	RetryInterval time.Duration
	Logger        *zap.Logger
}

// DefaultConfig returns a config with a 1024 message queue and 1ms retry interval.
func DefaultConfig() Config {
	return Config{
		QueueSize:     1024,
		RetryInterval: time.Millisecond,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	if c.QueueSize == 0 {
		return errors.Wrap(ErrInvalidCfg, "zero queue size")
	}
	if c.RetryInterval <= 0 {
		return errors.Wrapf(ErrInvalidCfg, "retry interval %v", c.RetryInterval)
	}
	return nil
}

// Publisher encodes messages and sends them in order from its own goroutine.
// Publish may be called from any goroutine.
type Publisher struct {
	sender  channel.Sender
	queue   *queue.RingBuffer
	cfg     Config
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	pending int64
	sent    uint64
	failed  uint64

	mu      sync.Mutex
	lastErr error
}

// NewPublisher starts a publisher, which sends into sender.
func NewPublisher(sender channel.Sender, cfg Config) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Publisher{
		sender: sender,
		queue:  queue.NewRingBuffer(cfg.QueueSize),
		cfg:    cfg,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go p.run()
	return p, nil
}

// Publish encodes msg and puts it into the queue, waiting for room in it.
func (p *Publisher) Publish(msg *wire.Message) error {
	payload, err := encode(msg)
	if err != nil {
		return err
	}
	atomic.AddInt64(&p.pending, 1)
	if err := p.queue.Put(payload); err != nil {
		atomic.AddInt64(&p.pending, -1)
		return ErrClosed
	}
	return nil
}

// TryPublish is like Publish, but returns ErrQueueFull instead of waiting.
func (p *Publisher) TryPublish(msg *wire.Message) error {
	payload, err := encode(msg)
	if err != nil {
		return err
	}
	atomic.AddInt64(&p.pending, 1)
	ok, err := p.queue.Offer(payload)
	if err != nil || !ok {
		atomic.AddInt64(&p.pending, -1)
		if err != nil {
			return ErrClosed
		}
		return ErrQueueFull
	}
	return nil
}

func encode(msg *wire.Message) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := wire.AppendMessage(buf, msg); err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s", msg.Type)
	}
	return append([]byte(nil), buf.B...), nil
}

// Pending returns the number of published messages, which were not sent yet.
func (p *Publisher) Pending() int {
	return int(atomic.LoadInt64(&p.pending))
}

// Sent returns the number of messages written into the channel.
func (p *Publisher) Sent() uint64 {
	return atomic.LoadUint64(&p.sent)
}

// Failed returns the number of messages dropped because of send errors.
func (p *Publisher) Failed() uint64 {
	return atomic.LoadUint64(&p.failed)
}

// Err returns the last send error.
func (p *Publisher) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Flush waits until all published messages are sent or ctx is done.
func (p *Publisher) Flush(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.RetryInterval)
	defer ticker.Stop()
	for p.Pending() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.done:
			return ErrClosed
		case <-ticker.C:
		}
	}
	return nil
}

// Close flushes the queue and stops the publisher.
// Messages not sent before ctx is done are dropped.
func (p *Publisher) Close(ctx context.Context) error {
	flushErr := p.Flush(ctx)
	p.cancel()
	p.queue.Dispose()
	<-p.done
	if flushErr != nil && flushErr != ErrClosed {
		p.log.Warn("publisher closed with unsent messages", zap.Int("pending", p.Pending()))
		return flushErr
	}
	return nil
}

func (p *Publisher) run() {
	defer close(p.done)
	for {
		item, err := p.queue.Poll(pollTimeout)
		if err == queue.ErrTimeout {
			continue
		}
		if err != nil {
			return
		}
		p.send(item.([]byte))
		atomic.AddInt64(&p.pending, -1)
	}
}

func (p *Publisher) send(payload []byte) {
	b := backoff.NewConstantBackOff(p.cfg.RetryInterval)
	err := channel.SendRetry(p.ctx, p.sender, payload, b)
	if err == nil {
		atomic.AddUint64(&p.sent, 1)
		return
	}
	atomic.AddUint64(&p.failed, 1)
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
	if p.ctx.Err() == nil {
		p.log.Error("failed to send message", zap.Int("size", len(payload)), zap.Error(err))
	}
}
