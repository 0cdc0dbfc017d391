package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	framesSent     prometheus.Counter
	framesReceived prometheus.Counter
	bytesSent      prometheus.Counter
	bytesReceived  prometheus.Counter
	decodeErrors   prometheus.Counter
	droppedEvents  prometheus.Counter
	disconnects    prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		framesSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: "lexicard",
			Subsystem: "client",
			Name:      "frames_sent_total",
			Help:      "Envelopes written to the gateway.",
		}),
		framesReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: "lexicard",
			Subsystem: "client",
			Name:      "frames_received_total",
			Help:      "Envelopes extracted from the receive stream.",
		}),
		bytesSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: "lexicard",
			Subsystem: "client",
			Name:      "bytes_sent_total",
			Help:      "Frame bytes written, length prefixes included.",
		}),
		bytesReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: "lexicard",
			Subsystem: "client",
			Name:      "bytes_received_total",
			Help:      "Raw bytes handed to the reassembler.",
		}),
		decodeErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: "lexicard",
			Subsystem: "client",
			Name:      "decode_errors_total",
			Help:      "Inbound frames dropped because they failed to decode.",
		}),
		droppedEvents: f.NewCounter(prometheus.CounterOpts{
			Namespace: "lexicard",
			Subsystem: "client",
			Name:      "dropped_events_total",
			Help:      "Events discarded because a subscriber channel was full.",
		}),
		disconnects: f.NewCounter(prometheus.CounterOpts{
			Namespace: "lexicard",
			Subsystem: "client",
			Name:      "disconnects_total",
			Help:      "Connection teardowns, local and remote.",
		}),
	}
}
