package sim

// Built-in scenario presets for the four reference experiments. Each returns
// a valid Config for one protocol; the scenario runner fans these out across
// all protocol variants.

// Protocols lists every variant in reporting order.
func Protocols() []string {
	return []string{ProtocolStatic, ProtocolCLPA, ProtocolDBSRP, ProtocolProShard}
}

// ScenarioSteadyState disables the spike and measures baseline behavior on
// a 16-shard network.
func ScenarioSteadyState(protocol string, seed int64) Config {
	cfg := DefaultConfig()
	cfg.Protocol = protocol
	cfg.Seed = seed
	cfg.SpikeEpoch = -1
	return cfg
}

// ScenarioSpike keeps the default mid-run mint burst and measures each
// protocol's reaction around the spike epoch.
func ScenarioSpike(protocol string, seed int64) Config {
	cfg := DefaultConfig()
	cfg.Protocol = protocol
	cfg.Seed = seed
	return cfg
}

// ScenarioScalability reuses the steady-state workload at a given shard
// count; the runner sweeps the count upward with the workload fixed.
func ScenarioScalability(protocol string, seed int64, numShards int) Config {
	cfg := ScenarioSteadyState(protocol, seed)
	cfg.NumShards = numShards
	return cfg
}

// ScalabilityShardCounts is the shard-count sweep of the scalability
// experiment.
func ScalabilityShardCounts() []int {
	return []int{4, 16, 32, 64}
}

// ScenarioReconfiguration measures migration churn under the spiked
// workload; identical to ScenarioSpike, reported on the migration axis.
func ScenarioReconfiguration(protocol string, seed int64) Config {
	return ScenarioSpike(protocol, seed)
}
