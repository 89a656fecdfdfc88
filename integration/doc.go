//go:build integration

// Package integration provides integration tests for the asset index.
//
// These tests require Docker and spin up a real MinIO server using
// testcontainers.
// Run with: go test -tags=integration ./integration/...
package integration
