// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package channel implements a single-producer single-consumer message channel
// over a named shared memory region.
//
// The region holds a circular byte buffer. Each message is an 8-byte little-endian
// length followed by the payload, padded to 64 bytes. A message is never split
// across the end of the buffer: when it does not fit, the producer leaves its
// header at the old position and restarts from the beginning, and the consumer,
// reading that header, takes the same decision.
//
// Send and Receive never block waiting for space or data. They return a Result,
// and the caller decides when to retry (see SendRetry and ReceiveRetry).
package channel

import (
	"os"

	"github.com/nxgtw/scenelink"
	"github.com/nxgtw/scenelink/internal/helper"
	"github.com/nxgtw/scenelink/mmf"
	"github.com/nxgtw/scenelink/shm"
	ipc_sync "github.com/nxgtw/scenelink/sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var _ scenelink.Destroyer = (*Channel)(nil)

// LockerName returns the name of the lock object of a channel.
func LockerName(name string) string {
	return name + ".locker"
}

// Channel is one side of a shared memory channel.
// A Channel must be used from one goroutine at a time.
type Channel struct {
	name    string
	role    Role
	mem     *mmf.MemoryRegion
	region  *region
	locker  *ipc_sync.Mutex
	log     *zap.Logger
	metrics *Metrics
	closed  bool
}

// Open creates or attaches to the channel described by cfg.
// The side, which comes first, creates the shared objects, the other one opens them.
// Opening as a Producer discards any messages left in the region.
// A Consumer never changes the region on open, a fresh zero-filled region is empty.
// Failures to create or map the shared objects are returned as *ResourceError.
func Open(cfg Config) (*Channel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.logger().With(zap.String("channel", cfg.Name), zap.Stringer("role", cfg.Role))
	mem, created, err := helper.CreateWritableRegion(cfg.Name, os.O_CREATE, cfg.perm(), cfg.Capacity+headerOffset)
	if err != nil {
		return nil, resourceErr("map region", cfg.Name, err)
	}
	locker, _, err := ipc_sync.NewMutex(LockerName(cfg.Name), os.O_CREATE, cfg.perm())
	if err != nil {
		mem.Close()
		if created {
			shm.DestroyMemoryObject(cfg.Name)
		}
		return nil, resourceErr("open locker", cfg.Name, err)
	}
	r, err := newRegion(mem.Data())
	if err != nil {
		mem.Close()
		locker.Close()
		return nil, resourceErr("map region", cfg.Name, err)
	}
	ch := &Channel{
		name:    cfg.Name,
		role:    cfg.Role,
		mem:     mem,
		region:  r,
		locker:  locker,
		log:     log,
		metrics: cfg.Metrics,
	}
	if cfg.Role == Producer {
		ch.locker.Lock()
		r.reset()
		ch.locker.Unlock()
		log.Debug("region reset", zap.Bool("created", created))
	} else if !r.valid() {
		ch.Close()
		return nil, resourceErr("open region", cfg.Name, errors.New("head or tail is out of the data area"))
	}
	log.Info("channel opened", zap.Int("capacity", cfg.Capacity), zap.Bool("created", created))
	return ch, nil
}

// Name returns the name of the shared region.
func (ch *Channel) Name() string {
	return ch.name
}

// Role returns the side of the channel.
func (ch *Channel) Role() Role {
	return ch.role
}

// Capacity returns the size of the data area in bytes.
func (ch *Channel) Capacity() int {
	return int(ch.region.capacity)
}

// MaxPayload returns the largest payload, which can be sent over the channel.
func (ch *Channel) MaxPayload() int {
	return maxPayload(ch.region.capacity)
}

func maxPayload(capacity uint64) int {
	// the largest framed size below capacity/2.
	framed := roundUp64(capacity/2) - alignment
	return int(framed - messageHeaderSize)
}

// Send writes payload into the channel. It never blocks waiting for space:
//	Success - the message was written.
//	WrappedRetry - the write position was moved to the start of the buffer,
//		the same payload must be sent again.
//	Full - there is not enough room, nothing was changed.
func (ch *Channel) Send(payload []byte) (Result, error) {
	if err := ch.checkRole(Producer); err != nil {
		return Full, err
	}
	if len(payload) == 0 {
		return Full, ErrEmptyPayload
	}
	if len(payload) > ch.MaxPayload() {
		return Full, errors.Wrapf(ErrMessageTooLarge, "%d bytes, max is %d", len(payload), ch.MaxPayload())
	}
	framed := framedSize(len(payload))
	r := ch.region
	result := Full
	ch.locker.Lock()
	defer func() {
		ch.locker.Unlock()
		ch.metrics.observeSend(result, len(payload))
	}()
	head, tail := r.loadHead(), r.loadTail()
	if uint64(freeSpace(head, tail, r.capacity)) > framed {
		putHeader(r.data[head:], len(payload))
		copy(r.data[head+messageHeaderSize:], payload)
		r.storeHead(head + framed)
		result = Success
	} else if head == tail && framed < head {
		// the header stays at the old head, so that the consumer wraps too.
		putHeader(r.data[head:], len(payload))
		r.storeHead(dataStart)
		result = WrappedRetry
		ch.log.Debug("producer wrapped", zap.Uint64("at", head), zap.Int("length", len(payload)))
	}
	return result, nil
}

// PeekNextSize returns the length of the next message, or 0 if there is none.
// It does not take the lock and does not change the channel state.
// A stored length, which no producer could have written, is reported as ErrCorruptHeader.
func (ch *Channel) PeekNextSize() (int, error) {
	if err := ch.checkRole(Consumer); err != nil {
		return 0, err
	}
	r := ch.region
	tail := r.loadTail()
	// tail is zero, until the producer resets a fresh region.
	if tail < dataStart || tail == r.loadHead() {
		return 0, nil
	}
	if tail > r.end()-messageHeaderSize {
		return 0, errors.Wrapf(ErrCorruptHeader, "tail at %d", tail)
	}
	length := readHeader(r.data[tail:])
	if length == 0 || length > uint64(ch.MaxPayload()) {
		return 0, errors.Wrapf(ErrCorruptHeader, "length %d at %d, max is %d", length, tail, ch.MaxPayload())
	}
	return int(length), nil
}

// Receive reads the next message into buf. len(buf) must be equal to
// the value returned by PeekNextSize:
//	Success - buf holds the message.
//	WrappedRetry - the read position was moved to the start of the buffer,
//		PeekNextSize and Receive must be called again.
//	NoData - there is no message, or buf is empty.
func (ch *Channel) Receive(buf []byte) (Result, error) {
	if err := ch.checkRole(Consumer); err != nil {
		return NoData, err
	}
	if len(buf) == 0 {
		return NoData, nil
	}
	r := ch.region
	result := NoData
	ch.locker.Lock()
	defer func() {
		ch.locker.Unlock()
		ch.metrics.observeReceive(result, len(buf))
	}()
	head, tail := r.loadHead(), r.loadTail()
	if tail == head || tail < dataStart {
		return result, nil
	}
	if tail > r.end()-messageHeaderSize {
		return result, errors.Wrapf(ErrCorruptHeader, "tail at %d", tail)
	}
	if stored := readHeader(r.data[tail:]); stored != uint64(len(buf)) {
		return result, errors.Wrapf(ErrLengthMismatch, "buffer of %d bytes, message of %d", len(buf), stored)
	}
	framed := framedSize(len(buf))
	if !fitsAt(tail, framed, r.capacity) {
		r.storeTail(dataStart)
		result = WrappedRetry
		ch.log.Debug("consumer wrapped", zap.Uint64("at", tail), zap.Int("length", len(buf)))
		return result, nil
	}
	start := tail + messageHeaderSize
	copy(buf, r.data[start:start+uint64(len(buf))])
	r.storeTail(tail + framed)
	result = Success
	return result, nil
}

// FreeSpace returns the number of bytes, which can be written without wrapping.
func (ch *Channel) FreeSpace() int {
	if ch.closed {
		return 0
	}
	r := ch.region
	return freeSpace(r.loadHead(), r.loadTail(), r.capacity)
}

// Stats is a snapshot of the channel state.
type Stats struct {
	Capacity  int
	Head      int
	Tail      int
	FreeSpace int
	Role      Role
}

// Stats returns the current state of the channel.
func (ch *Channel) Stats() Stats {
	if ch.closed {
		return Stats{Role: ch.role}
	}
	r := ch.region
	head, tail := r.loadHead(), r.loadTail()
	return Stats{
		Capacity:  int(r.capacity),
		Head:      int(head),
		Tail:      int(tail),
		FreeSpace: freeSpace(head, tail, r.capacity),
		Role:      ch.role,
	}
}

// Close unmaps the region and closes the lock. The shared objects persist.
func (ch *Channel) Close() error {
	if ch.closed {
		return nil
	}
	ch.closed = true
	errRegion := ch.mem.Close()
	errLocker := ch.locker.Close()
	if errRegion != nil {
		return errors.Wrap(errRegion, "failed to close shm region")
	}
	if errLocker != nil {
		return errors.Wrap(errLocker, "failed to close locker")
	}
	return nil
}

// Destroy closes the channel and removes its shared objects.
func (ch *Channel) Destroy() error {
	if err := ch.Close(); err != nil {
		return err
	}
	ch.log.Info("channel destroyed")
	return Destroy(ch.name)
}

// Destroy permanently removes the region and the lock of the channel with the given name.
func Destroy(name string) error {
	errLocker := ipc_sync.DestroyMutex(LockerName(name))
	if errObject := shm.DestroyMemoryObject(name); errObject != nil {
		return errors.Wrap(errObject, "failed to destroy memory object")
	}
	if errLocker != nil {
		return errors.Wrap(errLocker, "failed to destroy locker")
	}
	return nil
}

func (ch *Channel) checkRole(role Role) error {
	if ch.closed {
		return ErrClosed
	}
	if ch.role != role {
		return errors.Wrapf(ErrWrongRole, "%s side", ch.role)
	}
	return nil
}
