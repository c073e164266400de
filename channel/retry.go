// Copyright 2016 Aleksandr Demakin. All rights reserved.

package channel

import (
	"context"

	"github.com/cenkalti/backoff/v4"
)

// Sender is the producer side of a channel.
type Sender interface {
	Send(payload []byte) (Result, error)
}

// Receiver is the consumer side of a channel.
type Receiver interface {
	PeekNextSize() (int, error)
	Receive(buf []byte) (Result, error)
}

var (
	_ Sender   = (*Channel)(nil)
	_ Receiver = (*Channel)(nil)
)

// SendRetry sends payload, retrying Full results according to b.
// WrappedRetry is retried at once. Contract errors are returned immediately.
// If b gives up, ErrFull is returned. If ctx is done, ctx.Err() is returned.
func SendRetry(ctx context.Context, ch Sender, payload []byte, b backoff.BackOff) error {
	op := func() error {
		for {
			result, err := ch.Send(payload)
			if err != nil {
				return backoff.Permanent(err)
			}
			switch result {
			case Success:
				return nil
			case WrappedRetry:
				continue
			default:
				return ErrFull
			}
		}
	}
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}

// ReceiveRetry receives one message, retrying while there is no data according to b.
// The returned slice is allocated for the message.
// If b gives up, ErrNoData is returned. If ctx is done, ctx.Err() is returned.
func ReceiveRetry(ctx context.Context, ch Receiver, b backoff.BackOff) ([]byte, error) {
	var msg []byte
	op := func() error {
		var err error
		msg, err = ReceiveNext(ch)
		if err == ErrNoData {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return msg, nil
}

// ReceiveNext makes one attempt to receive a message, following wraps.
// It returns ErrNoData, if the channel is empty.
func ReceiveNext(ch Receiver) ([]byte, error) {
	for {
		size, err := ch.PeekNextSize()
		if err != nil {
			return nil, err
		}
		if size == 0 {
			return nil, ErrNoData
		}
		buf := make([]byte, size)
		result, err := ch.Receive(buf)
		if err != nil {
			return nil, err
		}
		switch result {
		case Success:
			return buf, nil
		case WrappedRetry:
			continue
		default:
			return nil, ErrNoData
		}
	}
}
