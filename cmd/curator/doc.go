// Package main hosts the curator CLI entrypoint and command graph.
//
// Each subcommand is one maintenance pass over the paintings dataset:
// partitioning, URL discovery, downloads, collision fixes, absent marking,
// cleanup and placeholder review. Commands resolve configuration once, take
// the data directory lock, and hand the loaded store and workspace to
// internal/reconcile. Per-record progress goes to stdout; structured logs
// go to stderr.
package main
