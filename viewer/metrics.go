// Copyright 2016 Aleksandr Demakin. All rights reserved.

package viewer

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds viewer counters. A nil *Metrics is valid and collects nothing.
type Metrics struct {
	Applied      prometheus.Counter
	DecodeErrors prometheus.Counter
	ApplyErrors  prometheus.Counter
	Polls        prometheus.Counter
}

// NewMetrics creates viewer counters and registers them in reg, if it is not nil.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "viewer",
			Name:      name,
			Help:      help,
		})
	}
	m := &Metrics{
		Applied:      counter("messages_applied_total", "Number of messages applied to the scene."),
		DecodeErrors: counter("decode_errors_total", "Number of payloads, which could not be decoded."),
		ApplyErrors:  counter("apply_errors_total", "Number of decoded messages, which were rejected."),
		Polls:        counter("polls_total", "Number of completed polls."),
	}
	if reg != nil {
		reg.MustRegister(m.Applied, m.DecodeErrors, m.ApplyErrors, m.Polls)
	}
	return m
}

type event int

const (
	eventApplied event = iota
	eventDecodeError
	eventApplyError
	eventPoll
)

func (m *Metrics) observe(e event) {
	if m == nil {
		return
	}
	switch e {
	case eventApplied:
		m.Applied.Inc()
	case eventDecodeError:
		m.DecodeErrors.Inc()
	case eventApplyError:
		m.ApplyErrors.Inc()
	case eventPoll:
		m.Polls.Inc()
	}
}
