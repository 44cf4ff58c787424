package transport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cowboy_h2_connections_total",
		Help: "Total number of HTTP/2 connections accepted",
	})

	metricConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cowboy_h2_connections_active",
		Help: "Current number of live HTTP/2 connections",
	})

	metricStreamsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cowboy_h2_streams_total",
		Help: "Total number of streams initialised",
	})

	metricStreamsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cowboy_h2_streams_active",
		Help: "Current number of live streams across all connections",
	})

	metricFramesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cowboy_h2_frames_received_total",
		Help: "Frames received, by frame type",
	}, []string{"type"})

	metricProtocolErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cowboy_h2_protocol_errors_total",
		Help: "Protocol violations, by scope (connection or stream)",
	}, []string{"scope"})
)
