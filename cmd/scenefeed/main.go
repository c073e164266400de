// Copyright 2016 Aleksandr Demakin. All rights reserved.

// scenefeed publishes a rotating cube scene into a channel.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nxgtw/scenelink/channel"
	"github.com/nxgtw/scenelink/scene"
	"github.com/nxgtw/scenelink/wire"

	"go.uber.org/zap"
)

var (
	objName    = flag.String("name", "scenelink", "shared memory region name")
	capacityMB = flag.Int("capacity-mb", 16, "data area size in megabytes")
	frames     = flag.Int("frames", 600, "number of animation frames, 0 for endless")
	fps        = flag.Int("fps", 60, "frames per second")
	debug      = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()
	if flag.NArg() != 0 || *fps <= 0 || *frames < 0 {
		flag.Usage()
		os.Exit(2)
	}
	var log *zap.Logger
	var err error
	if *debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, log); err != nil {
		log.Error("feed failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger) error {
	cfg := channel.DefaultConfig(*objName, channel.Producer)
	cfg.Capacity = channel.CapacityFromMB(*capacityMB)
	cfg.Logger = log
	ch, err := channel.Open(cfg)
	if err != nil {
		return err
	}
	defer ch.Close()

	pcfg := scene.DefaultConfig()
	pcfg.Logger = log
	pub, err := scene.NewPublisher(ch, pcfg)
	if err != nil {
		return err
	}
	err = feed(ctx, pub, *frames, time.Second/time.Duration(*fps))
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if closeErr := pub.Close(closeCtx); closeErr != nil && err == nil {
		err = closeErr
	}
	log.Info("feed stopped", zap.Uint64("sent", pub.Sent()), zap.Uint64("failed", pub.Failed()))
	if err == context.Canceled {
		return nil
	}
	return err
}

func feed(ctx context.Context, pub *scene.Publisher, frames int, period time.Duration) error {
	camera := wire.Camera{
		Kind:   wire.Perspective,
		Name:   "persp",
		Matrix: scene.RotationY(0, [3]float32{0, 2, 10}),
		FOV:    float32(45 * math.Pi / 180),
		Aspect: 16.0 / 9.0,
		Near:   0.1,
		Far:    1000,
	}
	material := wire.Material{Name: "lambert1", Color: [3]float32{0.8, 0.3, 0.2}, SpecularPower: 10}
	setup := []*wire.Message{
		scene.CameraAdded(camera),
		scene.ViewChanged(camera),
		scene.LightAdded("keyLight"),
		scene.MeshAdded("pCube1", scene.Cube(2), wire.Identity(), material),
	}
	for _, msg := range setup {
		if err := pub.Publish(msg); err != nil {
			return err
		}
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for frame := 1; frames == 0 || frame <= frames; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		angle := 2 * math.Pi * float64(frame) / 360
		if err := pub.Publish(scene.TransformChanged("pCube1", scene.RotationY(angle, [3]float32{}))); err != nil {
			return err
		}
		if frame%60 == 0 {
			camera.Matrix = scene.RotationY(-angle/4, [3]float32{0, 2, 10})
			if err := pub.Publish(scene.ViewChanged(camera)); err != nil {
				return err
			}
		}
	}
	return nil
}
