// Copyright 2016 Aleksandr Demakin. All rights reserved.

// sceneviewer keeps a scene in sync with a channel and serves its metrics and health.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nxgtw/scenelink/channel"
	"github.com/nxgtw/scenelink/viewer"

	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "scenelink"

var (
	objName    = flag.String("name", "scenelink", "shared memory region name")
	capacityMB = flag.Int("capacity-mb", 16, "data area size in megabytes")
	interval   = flag.Duration("poll", viewer.DefaultInterval, "poll interval")
	budget     = flag.Int("budget", viewer.DefaultBudget, "messages applied per poll")
	listen     = flag.String("listen", ":9460", "http address for /metrics, /live and /ready")
	debug      = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()
	if flag.NArg() != 0 {
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
	if err := run(ctx, log); err != nil && errors.Cause(err) != context.Canceled {
		log.Error("viewer failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cfg := channel.DefaultConfig(*objName, channel.Consumer)
	cfg.Capacity = channel.CapacityFromMB(*capacityMB)
	cfg.Logger = log
	cfg.Metrics = channel.NewMetrics(reg, namespace)
	ch, err := channel.Open(cfg)
	if err != nil {
		return err
	}
	defer ch.Close()

	vcfg := viewer.DefaultConfig()
	vcfg.Budget = *budget
	vcfg.Interval = *interval
	vcfg.Logger = log
	vcfg.Metrics = viewer.NewMetrics(reg, namespace)
	poller, err := viewer.NewPoller(ch, viewer.NewScene(), vcfg)
	if err != nil {
		return err
	}

	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutines", healthcheck.GoroutineCountCheck(1000))
	health.AddReadinessCheck("poll", poller.ReadinessCheck(10*vcfg.Interval+time.Second))
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/live", health)
	mux.Handle("/ready", health)
	server := &http.Server{Addr: *listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server failed", zap.Error(err))
		}
	}()
	log.Info("viewer started", zap.String("name", *objName), zap.String("listen", *listen))

	err = poller.Run(ctx)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Warn("http server shutdown failed", zap.Error(shutdownErr))
	}
	counts := poller.Scene().Counts()
	log.Info("viewer stopped", zap.Uint64("applied", poller.Applied()),
		zap.Int("nodes", counts.Nodes), zap.Int("cameras", counts.Cameras), zap.Int("lights", counts.Lights))
	return err
}
