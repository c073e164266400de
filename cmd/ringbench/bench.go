// Copyright 2016 Aleksandr Demakin. All rights reserved.

package main

import (
	"context"
	"hash/crc32"
	"io"
	"math/rand"
	"time"

	"github.com/nxgtw/scenelink/channel"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	alphabet      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	retryInterval = 100 * time.Microsecond
)

// payloadSource generates the same sequence of payloads for the same arguments.
type payloadSource struct {
	rnd    *rand.Rand
	length int
	limit  int
}

func newPayloadSource(length, limit int) *payloadSource {
	return &payloadSource{rnd: rand.New(rand.NewSource(0)), length: length, limit: limit}
}

func (s *payloadSource) next() []byte {
	length := s.length
	if length == 0 {
		length = 1 + s.rnd.Intn(s.limit)
	}
	result := make([]byte, length)
	for i := range result {
		result[i] = alphabet[s.rnd.Intn(len(alphabet))]
	}
	return result
}

func run(ctx context.Context, args benchArgs, log *zap.Logger, out io.Writer) error {
	cfg := channel.DefaultConfig(*objName, args.role)
	cfg.Capacity = channel.CapacityFromMB(args.capacityMB)
	cfg.Logger = log
	ch, err := channel.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		ch.Close()
		if *destroy {
			if err := channel.Destroy(*objName); err != nil {
				log.Warn("failed to destroy the region", zap.Error(err))
			}
		}
	}()
	start := time.Now()
	if args.role == channel.Producer {
		if args.length > ch.MaxPayload() {
			return errors.Wrapf(channel.ErrMessageTooLarge, "length %d, max is %d", args.length, ch.MaxPayload())
		}
		err = produce(ctx, ch, args, out)
	} else {
		err = consume(ctx, ch, args, out)
	}
	if err != nil {
		return err
	}
	log.Info("done", zap.Stringer("role", args.role), zap.Int("messages", args.count),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func produce(ctx context.Context, ch *channel.Channel, args benchArgs, out io.Writer) error {
	src := newPayloadSource(args.length, args.randomLimit(ch.MaxPayload()))
	var crc uint32
	for i := 0; i < args.count; i++ {
		payload := src.next()
		if err := channel.SendRetry(ctx, ch, payload, backoff.NewConstantBackOff(retryInterval)); err != nil {
			return errors.Wrapf(err, "failed to send message %d", i)
		}
		crc = crc32.Update(crc, crc32.IEEETable, payload)
		printLine(out, i, len(payload), crc)
		if err := pause(ctx, args.sleep); err != nil {
			return err
		}
	}
	return nil
}

func consume(ctx context.Context, ch *channel.Channel, args benchArgs, out io.Writer) error {
	var crc uint32
	for i := 0; i < args.count; i++ {
		payload, err := channel.ReceiveRetry(ctx, ch, backoff.NewConstantBackOff(retryInterval))
		if err != nil {
			return errors.Wrapf(err, "failed to receive message %d", i)
		}
		crc = crc32.Update(crc, crc32.IEEETable, payload)
		printLine(out, i, len(payload), crc)
		if err := pause(ctx, args.sleep); err != nil {
			return err
		}
	}
	return nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
