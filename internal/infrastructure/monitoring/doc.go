/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the
generation engine, tracking HTTP requests, job and variant lifecycle,
constraint violations, and progress event throughput.

# Features

- HTTP request metrics (latency, throughput)
- Job metrics (active, terminal status, duration, coalescing)
- Per-platform variant metrics (status, expand+validate duration)
- Constraint violation counters by rule and severity
- Progress event counters by phase
- WebSocket connection metrics
- System metrics (uptime)

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record a variant outcome
	timer := monitoring.NewTimer(metrics, "react")
	defer timer.Stop("accepted")
*/
package monitoring
