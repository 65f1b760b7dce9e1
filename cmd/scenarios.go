package cmd

import (
	"fmt"
	"runtime"

	"github.com/alitto/pond/v2"
	"github.com/sirupsen/logrus"

	sim "github.com/shard-sim/shard-sim/sim"
)

// scenarioOrder fixes the reporting order of the full suite.
var scenarioOrder = []string{"steady-state", "spike", "scalability", "reconfiguration"}

func scenarioSuite() map[string]func() error {
	return map[string]func() error{
		"steady-state":    runSteadyState,
		"spike":           runSpike,
		"scalability":     runScalability,
		"reconfiguration": runReconfiguration,
	}
}

// runOutcome pairs one finished run with its summary. Results are collected
// by slot index so output order never depends on goroutine scheduling.
type runOutcome struct {
	cfg     sim.Config
	summary sim.ScenarioSummary
	records []sim.EpochRecord
}

// runAll executes the given configs on a worker pool, one independent engine
// per config. Runs share no mutable state, so full parallelism is safe; the
// per-run seed keeps each one reproducible on its own.
func runAll(configs []sim.Config) ([]runOutcome, error) {
	maxWorkers := workers
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	pool := pond.NewPool(maxWorkers)
	defer pool.StopAndWait()

	outcomes := make([]runOutcome, len(configs))
	group := pool.NewGroup()
	for i := range configs {
		slot := i
		cfg := configs[i]
		group.SubmitErr(func() error {
			engine, err := sim.NewEngine(cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", cfg.Protocol, err)
			}
			records, err := engine.RunScenario()
			if err != nil {
				return fmt.Errorf("%s: %w", cfg.Protocol, err)
			}
			agg := sim.NewAggregator(cfg.Protocol, &cfg)
			agg.IngestAll(records)
			outcomes[slot] = runOutcome{cfg: cfg, summary: agg.Summarize(), records: records}
			logrus.Debugf("run finished: protocol=%s shards=%d", cfg.Protocol, cfg.NumShards)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func protocolConfigs(build func(protocol string) sim.Config) []sim.Config {
	protocols := sim.Protocols()
	configs := make([]sim.Config, 0, len(protocols))
	for _, p := range protocols {
		configs = append(configs, applyOverrides(build(p)))
	}
	return configs
}

// runSteadyState reports mean throughput, latency, and cross-shard ratio
// with the spike disabled.
func runSteadyState() error {
	outcomes, err := runAll(protocolConfigs(func(p string) sim.Config {
		return sim.ScenarioSteadyState(p, seed)
	}))
	if err != nil {
		return err
	}

	header := []string{"protocol", "avg_throughput_tps", "avg_latency_s", "cst_ratio"}
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, []string{
			o.summary.Protocol,
			fmt.Sprintf("%.1f", o.summary.MeanThroughput),
			fmt.Sprintf("%.3f", o.summary.MeanLatency),
			fmt.Sprintf("%.4f", o.summary.MeanCrossRatio),
		})
	}
	printTable("Scenario 1: Steady-State Baseline", header, rows)
	return exportCSV("scenario_1_steady_state.csv", header, rows)
}

// runSpike reports each protocol's metrics at the spike epoch itself.
func runSpike() error {
	outcomes, err := runAll(protocolConfigs(func(p string) sim.Config {
		return sim.ScenarioSpike(p, seed)
	}))
	if err != nil {
		return err
	}

	header := []string{"protocol", "peak_latency_s", "peak_cst_ratio", "peak_imbalance"}
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		spikeRec, ok := recordAt(o.records, o.cfg.SpikeEpoch)
		if !ok {
			return fmt.Errorf("%s: no record for spike epoch %d", o.cfg.Protocol, o.cfg.SpikeEpoch)
		}
		agg := sim.NewAggregator(o.cfg.Protocol, &o.cfg)
		agg.Ingest(spikeRec)
		at := agg.Summarize()
		rows = append(rows, []string{
			o.summary.Protocol,
			fmt.Sprintf("%.3f", at.PeakLatency),
			fmt.Sprintf("%.4f", at.PeakCrossRatio),
			fmt.Sprintf("%.1fx", at.PeakImbalance),
		})
	}
	printTable("Scenario 2: Sudden Workload Spike", header, rows)
	return exportCSV("scenario_2_workload_spike.csv", header, rows)
}

// runScalability sweeps the shard count with the workload fixed and reports
// peak throughput per cell.
func runScalability() error {
	shardCounts := sim.ScalabilityShardCounts()
	protocols := sim.Protocols()

	var configs []sim.Config
	for _, p := range protocols {
		for _, s := range shardCounts {
			configs = append(configs, applyOverrides(sim.ScenarioScalability(p, seed, s)))
		}
	}
	outcomes, err := runAll(configs)
	if err != nil {
		return err
	}

	header := []string{"protocol"}
	for _, s := range shardCounts {
		header = append(header, fmt.Sprintf("s_%d_max_tps", s))
	}
	rows := make([][]string, 0, len(protocols))
	for i, p := range protocols {
		row := []string{p}
		for j := range shardCounts {
			o := outcomes[i*len(shardCounts)+j]
			row = append(row, fmt.Sprintf("%.0f", o.summary.PeakThroughput))
		}
		rows = append(rows, row)
	}
	printTable("Scenario 3: Scalability (max throughput, tx/s)", header, rows)
	return exportCSV("scenario_3_scalability.csv", header, rows)
}

// runReconfiguration reports the mean share of accounts migrated per epoch,
// excluding the initial epoch.
func runReconfiguration() error {
	outcomes, err := runAll(protocolConfigs(func(p string) sim.Config {
		return sim.ScenarioReconfiguration(p, seed)
	}))
	if err != nil {
		return err
	}

	header := []string{"protocol", "avg_pct_accounts_migrated"}
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		total, epochs := 0, 0
		for _, rec := range o.records {
			if rec.Epoch == 0 {
				continue
			}
			total += rec.Migrated
			epochs++
		}
		pct := 0.0
		if epochs > 0 {
			pct = float64(total) / float64(epochs) / float64(o.cfg.NumAccounts) * 100
		}
		rows = append(rows, []string{o.summary.Protocol, fmt.Sprintf("%.2f", pct)})
	}
	printTable("Scenario 4: Reconfiguration Cost", header, rows)
	return exportCSV("scenario_4_reconfiguration_cost.csv", header, rows)
}

func recordAt(records []sim.EpochRecord, epoch int) (sim.EpochRecord, bool) {
	for _, rec := range records {
		if rec.Epoch == epoch {
			return rec, true
		}
	}
	return sim.EpochRecord{}, false
}
