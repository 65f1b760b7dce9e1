// Package sim provides the core engine for evaluating sharding assignment
// protocols on a partitioned transaction network under synthetic workloads.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - account.go: the shared data model (accounts, transactions, mappings)
//   - engine.go: the epoch loop — generate, route, measure, re-shard, record
//   - protocol.go: the Assign contract the four protocol variants implement
//
// # Architecture
//
// One Engine owns one scenario run end to end: a seeded workload generator
// (workload.go), a decaying account-affinity graph (graph.go), bounded
// historical time series (history.go), and the active protocol. Epochs are
// strictly sequential; the mapping a protocol returns at epoch i only routes
// epoch i+1, so reconfiguration always lags the load that provoked it.
//
// The protocol variants (protocol_*.go) share the single Assign capability:
//   - static: hash placement, the zero-migration baseline
//   - clpa: periodic label propagation over the affinity graph
//   - dbsrp-ml: threshold-triggered greedy balanced graph cut
//   - proshard: per-epoch predictive risk scoring and preemptive placement
//
// Determinism is a hard contract: all randomness flows through the run's
// PartitionedRNG (rng.go), every map iteration that protocols observe is
// sorted, and two runs with equal Config and seed emit byte-identical
// EpochRecord sequences. The aggregator (metrics.go) reduces those records
// into scenario summaries; file and console output belong to callers.
package sim
