// Copyright 2016 Aleksandr Demakin. All rights reserved.

package channel

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds channel counters. A nil *Metrics is valid and collects nothing.
type Metrics struct {
	MessagesSent     prometheus.Counter
	MessagesReceived prometheus.Counter
	BytesSent        prometheus.Counter
	BytesReceived    prometheus.Counter
	SendFull         prometheus.Counter
	SendWraps        prometheus.Counter
	ReceiveWraps     prometheus.Counter
}

// NewMetrics creates channel counters and registers them in reg, if it is not nil.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}
	m := &Metrics{
		MessagesSent:     counter("messages_sent_total", "Number of messages written into the channel."),
		MessagesReceived: counter("messages_received_total", "Number of messages read from the channel."),
		BytesSent:        counter("bytes_sent_total", "Payload bytes written into the channel."),
		BytesReceived:    counter("bytes_received_total", "Payload bytes read from the channel."),
		SendFull:         counter("send_full_total", "Number of send attempts rejected for lack of space."),
		SendWraps:        counter("send_wraps_total", "Number of times the producer restarted from the buffer start."),
		ReceiveWraps:     counter("receive_wraps_total", "Number of times the consumer restarted from the buffer start."),
	}
	if reg != nil {
		reg.MustRegister(m.collectors()...)
	}
	return m
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.MessagesSent,
		m.MessagesReceived,
		m.BytesSent,
		m.BytesReceived,
		m.SendFull,
		m.SendWraps,
		m.ReceiveWraps,
	}
}

func (m *Metrics) observeSend(result Result, size int) {
	if m == nil {
		return
	}
	switch result {
	case Success:
		m.MessagesSent.Inc()
		m.BytesSent.Add(float64(size))
	case Full:
		m.SendFull.Inc()
	case WrappedRetry:
		m.SendWraps.Inc()
	}
}

func (m *Metrics) observeReceive(result Result, size int) {
	if m == nil {
		return
	}
	switch result {
	case Success:
		m.MessagesReceived.Inc()
		m.BytesReceived.Add(float64(size))
	case WrappedRetry:
		m.ReceiveWraps.Inc()
	}
}
