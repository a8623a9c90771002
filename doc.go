// Package autoroute is an auto-routing core for media-style pipelines: given
// a catalog of single-input/single-output transform factories and a set of
// input/output endpoints with capability requirements, it enumerates,
// sandboxes, costs, and selects a minimum-cost routed graph connecting every
// output, fanning out from shared prefixes where that's cheaper than
// re-deriving a chain from scratch.
//
// What is autoroute?
//
//	A thread-safe Go core that brings together:
//
//	  - A factory index: precomputed capability sets per factory, queried
//	    by the chain enumerator (package factory).
//	  - A bounded-length chain enumerator with pluggable validators
//	    (package chain).
//	  - A sandboxed negotiation tester that materializes and costs a
//	    candidate chain without touching the live pipeline (package sandbox).
//	  - A layered BFS proposal generator and bitmask dynamic-programming
//	    selector for exact-cover minimum-cost routing (package proposal).
//	  - A three-state rebuild protocol serializing planning passes against
//	    stream activity (package rebuild).
//
// Why autoroute?
//
//   - Host-agnostic — package host declares the only interfaces the
//     planning core depends on; package host/memhost is a reference,
//     in-memory implementation for tests and the CLI.
//   - Deterministic — enumeration order, tie-breaking, and selection are
//     all pinned and tested (see each package's _test.go files).
//   - Observable — package metrics exports Prometheus collectors for every
//     planning pass; package router wires everything together behind a
//     zap.Logger.
//
// Subpackages:
//
//	caps/                 — opaque capability-set algebra plus a reference
//	                         token-based implementation
//	factory/               — the indexed factory catalog
//	chain/                 — bounded enumeration and validator composition
//	host/                  — collaborator interfaces; host/memhost for a
//	                         reference in-memory binding
//	sandbox/               — the negotiation tester and its element cache
//	proposal/              — arena-allocated proposals, the BFS generator,
//	                         and the DP selector
//	rebuild/               — the IDLE/DRAINING/REBUILDING state machine
//	metrics/               — Prometheus collectors
//	router/                — the top-level Bin orchestrator
//	cmd/autorouteinspect/  — a CLI for manually inspecting a planning pass
package autoroute
