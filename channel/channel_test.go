// Copyright 2016 Aleksandr Demakin. All rights reserved.

package channel

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChannelName(t *testing.T) string {
	return "scenelink-" + strings.NewReplacer("/", "-", " ", "_").Replace(t.Name())
}

func openSide(t *testing.T, name string, capacity int, role Role) *Channel {
	cfg := DefaultConfig(name, role)
	cfg.Capacity = capacity
	ch, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { ch.Close() })
	return ch
}

// openPair opens both sides of a fresh channel, the producer first.
func openPair(t *testing.T, capacity int) (*Channel, *Channel) {
	name := testChannelName(t)
	require.NoError(t, Destroy(name))
	t.Cleanup(func() { Destroy(name) })
	producer := openSide(t, name, capacity, Producer)
	consumer := openSide(t, name, capacity, Consumer)
	return producer, consumer
}

func payload(seed int64, length int) []byte {
	rnd := rand.New(rand.NewSource(seed))
	result := make([]byte, length)
	rnd.Read(result)
	return result
}

func mustSend(t *testing.T, ch *Channel, data []byte) {
	result, err := ch.Send(data)
	require.NoError(t, err)
	require.Equal(t, Success, result)
}

func mustReceive(t *testing.T, ch *Channel) []byte {
	size, err := ch.PeekNextSize()
	require.NoError(t, err)
	require.NotZero(t, size)
	buf := make([]byte, size)
	result, err := ch.Receive(buf)
	require.NoError(t, err)
	require.Equal(t, Success, result)
	return buf
}

func TestSingleMessageRoundTrip(t *testing.T) {
	a := assert.New(t)
	producer, consumer := openPair(t, 1<<20)
	a.Equal(1<<20, producer.FreeSpace())
	a.Equal(1<<20, producer.Capacity())

	data := payload(1, 100)
	mustSend(t, producer, data)
	// 100 bytes and the header are padded to 128.
	a.Equal(headerOffset+128, producer.Stats().Head)
	a.Equal(dataStart, producer.Stats().Tail)

	size, err := consumer.PeekNextSize()
	a.NoError(err)
	a.Equal(100, size)
	a.Equal(data, mustReceive(t, consumer))
	a.Equal(headerOffset+128, consumer.Stats().Tail)

	size, err = consumer.PeekNextSize()
	a.NoError(err)
	a.Zero(size)
	result, err := consumer.Receive(make([]byte, 100))
	a.NoError(err)
	a.Equal(NoData, result)
}

func TestSendDoesNotSplitMessages(t *testing.T) {
	a := assert.New(t)
	producer, consumer := openPair(t, 1024)
	for i := 0; i < 3; i++ {
		mustSend(t, producer, payload(int64(i), 200))
	}
	a.Equal(784, producer.Stats().Head)
	mustReceive(t, consumer)
	mustReceive(t, consumer)
	// 240 bytes left before the end, 752 free in total.
	stats := producer.Stats()
	a.Equal(528, stats.Tail)
	a.Equal(240, stats.FreeSpace)

	before := append([]byte(nil), producer.region.data[784:]...)
	result, err := producer.Send(payload(3, 200))
	a.NoError(err)
	a.Equal(Full, result)
	a.Equal(784, producer.Stats().Head)
	a.Equal(before, producer.region.data[784:])

	a.Equal(payload(2, 200), mustReceive(t, consumer))
}

func TestMessagesKeepOrder(t *testing.T) {
	producer, consumer := openPair(t, 1<<20)
	first, second := payload(1, 1000), payload(2, 2000)
	mustSend(t, producer, first)
	mustSend(t, producer, second)
	var received []byte
	received = append(received, mustReceive(t, consumer)...)
	received = append(received, mustReceive(t, consumer)...)
	assert.Equal(t, append(append([]byte(nil), first...), second...), received)
}

func TestWraparound(t *testing.T) {
	a := assert.New(t)
	producer, consumer := openPair(t, 1024)
	for i := 0; i < 3; i++ {
		mustSend(t, producer, payload(int64(i), 200))
		mustReceive(t, consumer)
	}
	a.Equal(784, producer.Stats().Head)
	a.Equal(784, consumer.Stats().Tail)

	relocated := payload(42, 200)
	result, err := producer.Send(relocated)
	a.NoError(err)
	a.Equal(WrappedRetry, result)
	a.Equal(dataStart, producer.Stats().Head)
	mustSend(t, producer, relocated)
	a.Equal(dataStart+256, producer.Stats().Head)

	// the consumer sees the length left at the old position.
	size, err := consumer.PeekNextSize()
	a.NoError(err)
	a.Equal(200, size)
	result, err = consumer.Receive(make([]byte, size))
	a.NoError(err)
	a.Equal(WrappedRetry, result)
	a.Equal(dataStart, consumer.Stats().Tail)

	a.Equal(relocated, mustReceive(t, consumer))
	a.Equal(dataStart+256, consumer.Stats().Tail)
}

func TestWrapWhileEmptyAtStart(t *testing.T) {
	a := assert.New(t)
	producer, consumer := openPair(t, 1024)
	for i := 0; i < 3; i++ {
		mustSend(t, producer, payload(int64(i), 200))
		mustReceive(t, consumer)
	}
	result, err := producer.Send(payload(7, 200))
	a.NoError(err)
	a.Equal(WrappedRetry, result)

	// the consumer follows the wrap before the message is sent again.
	result, err = consumer.Receive(make([]byte, 200))
	a.NoError(err)
	a.Equal(WrappedRetry, result)
	size, err := consumer.PeekNextSize()
	a.NoError(err)
	a.Zero(size)
	a.Equal(1024, producer.FreeSpace())

	mustSend(t, producer, payload(7, 200))
	a.Equal(payload(7, 200), mustReceive(t, consumer))
}

func TestPeekIsIdempotent(t *testing.T) {
	a := assert.New(t)
	producer, consumer := openPair(t, 4096)
	mustSend(t, producer, payload(1, 300))
	mustSend(t, producer, payload(2, 10))
	for i := 0; i < 5; i++ {
		size, err := consumer.PeekNextSize()
		a.NoError(err)
		a.Equal(300, size)
	}
	stats := consumer.Stats()
	a.Equal(dataStart, stats.Tail)
	mustReceive(t, consumer)
	size, err := consumer.PeekNextSize()
	a.NoError(err)
	a.Equal(10, size)
}

func TestCapacityBound(t *testing.T) {
	a := assert.New(t)
	const capacity = 8192
	producer, _ := openPair(t, capacity)
	rnd := rand.New(rand.NewSource(5))
	used := uint64(0)
	for {
		length := 1 + rnd.Intn(producer.MaxPayload())
		result, err := producer.Send(payload(int64(length), length))
		require.NoError(t, err)
		if result != Success {
			a.Equal(Full, result)
			break
		}
		used += framedSize(length)
		a.True(used <= capacity)
	}
	a.Equal(int(used)+dataStart, producer.Stats().Head)
}

func TestRandomMessagesRoundTrip(t *testing.T) {
	a := assert.New(t)
	producer, consumer := openPair(t, 4096)
	rnd := rand.New(rand.NewSource(11))
	var pending [][]byte
	for i := 0; i < 2000; i++ {
		if rnd.Intn(2) == 0 {
			msg := payload(int64(i), 1+rnd.Intn(producer.MaxPayload()))
			for {
				result, err := producer.Send(msg)
				require.NoError(t, err)
				if result == Success {
					pending = append(pending, msg)
					break
				}
				if result == Full {
					break
				}
			}
			continue
		}
		msg, err := ReceiveNext(consumer)
		if len(pending) == 0 {
			a.Equal(ErrNoData, err)
			continue
		}
		require.NoError(t, err)
		require.True(t, bytes.Equal(pending[0], msg), "message %d", i)
		pending = pending[1:]
	}
	for len(pending) > 0 {
		msg, err := ReceiveNext(consumer)
		require.NoError(t, err)
		require.True(t, bytes.Equal(pending[0], msg))
		pending = pending[1:]
	}
}

func TestContractErrors(t *testing.T) {
	a := assert.New(t)
	producer, consumer := openPair(t, 1024)

	_, err := producer.Send(nil)
	a.Equal(ErrEmptyPayload, err)
	_, err = producer.Send(make([]byte, producer.MaxPayload()+1))
	a.True(errors.Is(err, ErrMessageTooLarge))
	_, err = producer.Receive(make([]byte, 1))
	a.True(errors.Is(err, ErrWrongRole))
	_, err = producer.PeekNextSize()
	a.True(errors.Is(err, ErrWrongRole))
	_, err = consumer.Send([]byte{1})
	a.True(errors.Is(err, ErrWrongRole))

	mustSend(t, producer, payload(1, 100))
	result, err := consumer.Receive(make([]byte, 99))
	a.True(errors.Is(err, ErrLengthMismatch))
	a.Equal(NoData, result)
	a.Equal(dataStart, consumer.Stats().Tail)
	result, err = consumer.Receive(nil)
	a.NoError(err)
	a.Equal(NoData, result)
	a.Equal(payload(1, 100), mustReceive(t, consumer))

	a.NoError(consumer.Close())
	a.NoError(consumer.Close())
	_, err = consumer.Receive(make([]byte, 1))
	a.Equal(ErrClosed, err)
	_, err = consumer.PeekNextSize()
	a.Equal(ErrClosed, err)
	a.Zero(consumer.FreeSpace())
}

func TestCorruptHeader(t *testing.T) {
	a := assert.New(t)
	producer, consumer := openPair(t, 1024)
	mustSend(t, producer, payload(1, 100))

	header := consumer.region.data[dataStart:]
	putHeader(header, consumer.MaxPayload()+1)
	size, err := consumer.PeekNextSize()
	a.True(errors.Is(err, ErrCorruptHeader))
	a.Zero(size)
	_, err = ReceiveNext(consumer)
	a.True(errors.Is(err, ErrCorruptHeader))

	putHeader(header, 0)
	_, err = consumer.PeekNextSize()
	a.True(errors.Is(err, ErrCorruptHeader))

	putHeader(header, 100)
	a.Equal(payload(1, 100), mustReceive(t, consumer))
}

func TestInvalidConfig(t *testing.T) {
	a := assert.New(t)
	cfg := DefaultConfig("", Producer)
	_, err := Open(cfg)
	a.True(errors.Is(err, ErrInvalidConfig))
	cfg.Name = "scenelink-invalid"
	for _, capacity := range []int{0, 128, 1000, MinCapacity + 1} {
		cfg.Capacity = capacity
		a.True(errors.Is(cfg.Validate(), ErrInvalidConfig), "capacity %d", capacity)
	}
	cfg.Capacity = MinCapacity
	cfg.Role = 0
	a.True(errors.Is(cfg.Validate(), ErrInvalidConfig))
	cfg.Role = Consumer
	a.NoError(cfg.Validate())
}

func TestRoleAndResultNames(t *testing.T) {
	a := assert.New(t)
	a.Equal("producer", Producer.String())
	a.Equal("consumer", Consumer.String())
	a.Equal("unknown", Role(0).String())
	role, err := ParseRole("consumer")
	a.NoError(err)
	a.Equal(Consumer, role)
	_, err = ParseRole("viewer")
	a.Error(err)

	a.Equal("wrapped-retry", WrappedRetry.String())
	a.True(Success.OK())
	a.False(Full.OK())
	a.False(NoData.OK())
}
