package sim

// Protocol variant selectors accepted by Config.Protocol.
const (
	ProtocolStatic   = "static"
	ProtocolCLPA     = "clpa"
	ProtocolDBSRP    = "dbsrp-ml"
	ProtocolProShard = "proshard"
)

// Config enumerates every knob of a single scenario run. One Config plus one
// seed fully determines the emitted EpochRecord sequence.
type Config struct {
	// Universe and timeline.
	NumShards   int `yaml:"num_shards"`
	NumAccounts int `yaml:"num_accounts"`
	NumEpochs   int `yaml:"num_epochs"`

	// Baseline workload: TxPerEpoch sender/receiver pairs drawn from a
	// Zipf distribution with exponent PowerLawAlpha (must be > 1).
	TxPerEpoch    int     `yaml:"tx_per_epoch"`
	PowerLawAlpha float64 `yaml:"power_law_alpha"`

	// Event-driven spike. SpikeEpoch < 0 disables the spike entirely.
	// The spike injects SpikeTxCount transactions whose receivers are drawn
	// uniformly from a cluster of HotAccounts consecutive mint-target ids.
	SpikeEpoch   int `yaml:"spike_epoch"`
	SpikeTxCount int `yaml:"spike_tx_count"`
	HotAccounts  int `yaml:"hot_accounts"`

	// Affinity graph sliding window.
	GraphDecay   float64 `yaml:"graph_decay"`
	GraphEpsilon float64 `yaml:"graph_epsilon"`

	// Historical stats window length, in epochs.
	HistoryWindow int `yaml:"history_window"`

	// Protocol selection and per-protocol parameters. ImbalanceThreshold is
	// a max/min per-shard load ratio; CongestionThreshold is an absolute
	// cross-shard transaction count per epoch.
	Protocol            string  `yaml:"protocol"`
	CLPAInterval        int     `yaml:"clpa_interval"`
	CLPAMaxIters        int     `yaml:"clpa_max_iters"`
	ImbalanceThreshold  float64 `yaml:"imbalance_threshold"`
	CongestionThreshold float64 `yaml:"congestion_threshold"`
	PredictionHorizon   int     `yaml:"prediction_horizon"`
	ActivityDecay       float64 `yaml:"activity_decay"`
	RiskThreshold       float64 `yaml:"risk_threshold"`

	// Cost model used by the aggregator, not by routing.
	EpochDurationSec     float64 `yaml:"epoch_duration_sec"`
	IntraShardLatencySec float64 `yaml:"intra_shard_latency_sec"`
	CrossShardLatencySec float64 `yaml:"cross_shard_latency_sec"`

	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns a Config with the reference experiment parameters.
// Callers override what their scenario varies and must keep the result valid.
func DefaultConfig() Config {
	return Config{
		NumShards:            16,
		NumAccounts:          50000,
		NumEpochs:            100,
		TxPerEpoch:           80000,
		PowerLawAlpha:        2.5,
		SpikeEpoch:           50,
		SpikeTxCount:         400000,
		HotAccounts:          10,
		GraphDecay:           0.5,
		GraphEpsilon:         0.05,
		HistoryWindow:        10,
		Protocol:             ProtocolStatic,
		CLPAInterval:         10,
		CLPAMaxIters:         20,
		ImbalanceThreshold:   20.0,
		CongestionThreshold:  150000,
		PredictionHorizon:    2,
		ActivityDecay:        0.3,
		RiskThreshold:        0.25,
		EpochDurationSec:     300,
		IntraShardLatencySec: 2.0,
		CrossShardLatencySec: 10.0,
		Seed:                 42,
	}
}

// Validate checks the configuration and returns a ConfigError naming the
// first offending field. It never clamps: a bad value fails fast here so no
// failure can surface mid-run.
func (c *Config) Validate() error {
	if c.NumShards < 1 {
		return configErrorf("num_shards", "must be >= 1, got %d", c.NumShards)
	}
	if c.NumAccounts < 2 {
		return configErrorf("num_accounts", "account universe needs at least two accounts, got %d", c.NumAccounts)
	}
	if c.NumEpochs < 1 {
		return configErrorf("num_epochs", "must be >= 1, got %d", c.NumEpochs)
	}
	if c.TxPerEpoch < 1 {
		return configErrorf("tx_per_epoch", "must be >= 1, got %d", c.TxPerEpoch)
	}
	if c.PowerLawAlpha <= 1 {
		return configErrorf("power_law_alpha", "Zipf exponent must be > 1, got %g", c.PowerLawAlpha)
	}
	if c.SpikeEpoch >= 0 {
		if c.SpikeTxCount < 1 {
			return configErrorf("spike_tx_count", "must be >= 1 when a spike is scheduled, got %d", c.SpikeTxCount)
		}
		if c.HotAccounts < 1 || c.HotAccounts > c.NumAccounts {
			return configErrorf("hot_accounts", "must be in [1, num_accounts], got %d", c.HotAccounts)
		}
	}
	if c.GraphDecay <= 0 || c.GraphDecay >= 1 {
		return configErrorf("graph_decay", "must be in (0, 1), got %g", c.GraphDecay)
	}
	if c.GraphEpsilon < 0 {
		return configErrorf("graph_epsilon", "must be >= 0, got %g", c.GraphEpsilon)
	}
	if c.HistoryWindow < 1 {
		return configErrorf("history_window", "must be >= 1, got %d", c.HistoryWindow)
	}
	switch c.Protocol {
	case ProtocolStatic:
	case ProtocolCLPA:
		if c.CLPAInterval < 1 {
			return configErrorf("clpa_interval", "must be >= 1, got %d", c.CLPAInterval)
		}
		if c.CLPAMaxIters < 1 {
			return configErrorf("clpa_max_iters", "must be >= 1, got %d", c.CLPAMaxIters)
		}
	case ProtocolDBSRP:
		if c.ImbalanceThreshold < 1 {
			return configErrorf("imbalance_threshold", "max/min load ratio threshold must be >= 1, got %g", c.ImbalanceThreshold)
		}
		if c.CongestionThreshold <= 0 {
			return configErrorf("congestion_threshold", "cross-shard count threshold must be > 0, got %g", c.CongestionThreshold)
		}
	case ProtocolProShard:
		if c.PredictionHorizon < 1 {
			return configErrorf("prediction_horizon", "must be >= 1, got %d", c.PredictionHorizon)
		}
		if c.ActivityDecay <= 0 || c.ActivityDecay > 1 {
			return configErrorf("activity_decay", "EWMA factor must be in (0, 1], got %g", c.ActivityDecay)
		}
		if c.RiskThreshold < 0 {
			return configErrorf("risk_threshold", "must be >= 0, got %g", c.RiskThreshold)
		}
	default:
		return configErrorf("protocol", "unknown protocol variant %q", c.Protocol)
	}
	if c.EpochDurationSec <= 0 {
		return configErrorf("epoch_duration_sec", "must be > 0, got %g", c.EpochDurationSec)
	}
	if c.IntraShardLatencySec < 0 || c.CrossShardLatencySec < 0 {
		return configErrorf("latency", "latencies must be >= 0")
	}
	return nil
}

// hotAccountIDs returns the ids of the designated mint-target cluster. The
// cluster occupies a fixed consecutive range so that runs with the same
// universe size always designate the same accounts.
func (c *Config) hotAccountIDs() []AccountID {
	if c.SpikeEpoch < 0 || c.HotAccounts < 1 {
		return nil
	}
	start := c.NumAccounts / 2
	if start+c.HotAccounts > c.NumAccounts {
		start = c.NumAccounts - c.HotAccounts
	}
	ids := make([]AccountID, c.HotAccounts)
	for i := range ids {
		ids[i] = accountIDFor(start + i)
	}
	return ids
}
