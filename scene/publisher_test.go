// Copyright 2016 Aleksandr Demakin. All rights reserved.

package scene

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nxgtw/scenelink/channel"
	"github.com/nxgtw/scenelink/wire"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// scriptedSender returns the scripted results first, and then accepts everything.
type scriptedSender struct {
	mu     sync.Mutex
	script []channel.Result
	err    error
	sent   [][]byte
}

func (s *scriptedSender) Send(payload []byte) (channel.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return channel.Full, s.err
	}
	if len(s.script) > 0 {
		result := s.script[0]
		s.script = s.script[1:]
		if result != channel.Success {
			return result, nil
		}
	}
	s.sent = append(s.sent, append([]byte(nil), payload...))
	return channel.Success, nil
}

func (s *scriptedSender) messages(t *testing.T) []*wire.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*wire.Message
	for _, payload := range s.sent {
		msg, err := wire.Unmarshal(payload)
		require.NoError(t, err)
		result = append(result, msg)
	}
	return result
}

func newTestPublisher(t *testing.T, sender channel.Sender) *Publisher {
	cfg := DefaultConfig()
	cfg.QueueSize = 8
	cfg.RetryInterval = 100 * time.Microsecond
	cfg.Logger = zaptest.NewLogger(t)
	p, err := NewPublisher(sender, cfg)
	require.NoError(t, err)
	return p
}

func TestPublisherKeepsOrder(t *testing.T) {
	a := assert.New(t)
	sender := &scriptedSender{script: []channel.Result{channel.Full, channel.WrappedRetry, channel.Full, channel.Full}}
	p := newTestPublisher(t, sender)
	for i := 0; i < 50; i++ {
		require.NoError(t, p.Publish(TransformChanged("pCube1", RotationY(float64(i), [3]float32{}))))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, p.Close(ctx))

	a.Equal(uint64(50), p.Sent())
	a.Zero(p.Failed())
	a.Zero(p.Pending())
	msgs := sender.messages(t)
	require.Len(t, msgs, 50)
	for i, msg := range msgs {
		a.Equal(wire.MeshTransformChanged, msg.Type)
		a.Equal(RotationY(float64(i), [3]float32{}), msg.Transform.Matrix)
	}
	a.Equal(ErrClosed, p.Publish(MeshRemoved("pCube1")))
}

func TestPublisherEncodeError(t *testing.T) {
	p := newTestPublisher(t, &scriptedSender{})
	defer p.Close(context.Background())
	err := p.Publish(MeshRemoved(string(make([]byte, wire.NameSize))))
	assert.True(t, errors.Is(err, wire.ErrNameTooLong))
	assert.Zero(t, p.Pending())
}

func TestPublisherSendError(t *testing.T) {
	a := assert.New(t)
	sender := &scriptedSender{err: channel.ErrMessageTooLarge}
	p := newTestPublisher(t, sender)
	require.NoError(t, p.Publish(LightAdded("pointLight1")))
	require.NoError(t, p.Flush(context.Background()))
	a.Equal(uint64(1), p.Failed())
	a.True(errors.Is(p.Err(), channel.ErrMessageTooLarge))
	a.NoError(p.Close(context.Background()))
}

func TestPublisherQueueFull(t *testing.T) {
	a := assert.New(t)
	sender := &scriptedSender{}
	for i := 0; i < 1000; i++ {
		sender.script = append(sender.script, channel.Full)
	}
	p := newTestPublisher(t, sender)
	var err error
	for i := 0; i < 64 && err == nil; i++ {
		err = p.TryPublish(LightRemoved("l"))
	}
	a.Equal(ErrQueueFull, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.Equal(context.Canceled, p.Close(ctx))
	a.Equal(ErrClosed, p.TryPublish(LightRemoved("l")))
}

func TestPublisherConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	cfg.QueueSize = 0
	assert.True(t, errors.Is(cfg.Validate(), ErrInvalidCfg))
	cfg = DefaultConfig()
	cfg.RetryInterval = 0
	_, err := NewPublisher(&scriptedSender{}, cfg)
	assert.True(t, errors.Is(err, ErrInvalidCfg))
}

func TestCube(t *testing.T) {
	a := assert.New(t)
	vertices := Cube(2)
	a.Len(vertices, 36)
	for _, v := range vertices {
		for axis := 0; axis < 3; axis++ {
			a.InDelta(1, abs(v.Position[axis]), 1e-6)
		}
		// every vertex lies on the face its normal points to.
		for axis := 0; axis < 3; axis++ {
			if v.Normal[axis] != 0 {
				a.Equal(v.Normal[axis], v.Position[axis])
			}
		}
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestEvents(t *testing.T) {
	a := assert.New(t)
	msg := MeshAdded("pCube1", Cube(1), wire.Identity(), wire.Material{Name: "lambert1"})
	a.Equal(uint64(36), msg.Mesh.VertexCount)
	_, err := wire.Marshal(msg)
	a.NoError(err)
	a.Equal("pCube1", MeshRenamed("pCube1", "box").Mesh.OldName)
	a.Equal(wire.ViewChanged, ViewChanged(wire.Camera{Name: "persp"}).Type)
	a.Equal(wire.MaterialChanged, MaterialChanged("box", wire.Material{}).Type)
	a.Equal(wire.MeshTopologyChanged, TopologyChanged("box", Cube(1)).Type)
	a.Equal(wire.CameraAdded, CameraAdded(wire.Camera{}).Type)
}
