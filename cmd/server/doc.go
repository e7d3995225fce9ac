// Package main is the entry point for the component generation engine.
//
// The engine turns platform-neutral component requests into validated
// source artifacts for multiple UI frameworks at once.
//
// Pipeline:
//
//	Request → Intent Resolver → Variant Expander (per platform)
//	                          → Compliance Validator (per platform)
//
// The server provides:
//   - REST API for job submission, inspection, and cancellation
//   - WebSocket streaming of per-job progress events
//   - Read-only views of the template registry and rule set
//   - Prometheus metrics, rate limiting, and CORS
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -packs ./packs
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
