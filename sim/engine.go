package sim

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Engine run states.
const (
	engineInitialized = iota
	engineRunning
	engineCompleted
)

// Engine drives one scenario run: per epoch it generates the transaction
// batch, routes it with the mapping in effect at epoch start, feeds the
// affinity graph and historical stats, asks the active protocol for a
// possibly-updated mapping, and appends an EpochRecord. The mapping returned
// at epoch i takes effect at epoch i+1, so a migration never helps the epoch
// that triggered it — reconfiguration has realistic latency.
//
// An Engine owns its entire state tree (universe, graph, stats, RNG): two
// engines never share mutable state, so independent runs may execute fully
// in parallel. A completed engine is not restartable; reproduce a run by
// constructing a fresh Engine with the same config and seed.
type Engine struct {
	cfg      Config
	protocol Protocol
	gen      *WorkloadGenerator
	graph    *AffinityGraph
	stats    *HistoricalStats

	accounts map[AccountID]*Account
	hot      map[AccountID]bool
	mapping  Mapping
	state    int
	records  []EpochRecord
}

// NewEngine validates the configuration, constructs the selected protocol,
// and returns an engine in the Initialized state. All configuration failures
// surface here; a constructed engine cannot fail on configuration mid-run.
func NewEngine(cfg Config) (*Engine, error) {
	protocol, err := NewProtocol(&cfg)
	if err != nil {
		return nil, err
	}
	return NewEngineWithProtocol(cfg, protocol)
}

// NewEngineWithProtocol is the extension seam for protocol variants not
// selected by cfg.Protocol: the given protocol is used as-is while the rest
// of the configuration is validated normally.
func NewEngineWithProtocol(cfg Config, protocol Protocol) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	hot := make(map[AccountID]bool)
	for _, id := range cfg.hotAccountIDs() {
		hot[id] = true
	}
	return &Engine{
		cfg:      cfg,
		protocol: protocol,
		gen:      NewWorkloadGenerator(&cfg, rng),
		graph:    NewAffinityGraph(cfg.GraphDecay, cfg.GraphEpsilon),
		stats:    NewHistoricalStats(cfg.NumShards, cfg.HistoryWindow),
		accounts: make(map[AccountID]*Account),
		hot:      hot,
		mapping:  make(Mapping),
		state:    engineInitialized,
	}, nil
}

// RunScenario executes all configured epochs and returns the ordered record
// sequence. Equivalent to Run with a background context.
func (e *Engine) RunScenario() ([]EpochRecord, error) {
	return e.Run(context.Background())
}

// Run executes epochs until the configured count is reached or ctx is
// cancelled. Cancellation is crash-stop at epoch granularity: the current
// epoch always completes and is recorded, and no partial epoch ever is.
func (e *Engine) Run(ctx context.Context) ([]EpochRecord, error) {
	if e.state != engineInitialized {
		return nil, invariantErrorf(e.protocol.Name(), len(e.records), "engine is not restartable; construct a fresh one")
	}
	e.state = engineRunning
	logrus.Debugf("run start: protocol=%s shards=%d accounts=%d epochs=%d seed=%d",
		e.protocol.Name(), e.cfg.NumShards, e.cfg.NumAccounts, e.cfg.NumEpochs, e.cfg.Seed)

	for epoch := 0; epoch < e.cfg.NumEpochs; epoch++ {
		if err := ctx.Err(); err != nil {
			logrus.Debugf("run cancelled after epoch %d", epoch-1)
			break
		}
		if err := e.runEpoch(epoch); err != nil {
			e.state = engineCompleted
			return nil, err
		}
	}

	e.state = engineCompleted
	return e.records, nil
}

// Records returns the records appended so far.
func (e *Engine) Records() []EpochRecord {
	return e.records
}

func (e *Engine) runEpoch(epoch int) error {
	txs := e.gen.GenerateEpoch(epoch)

	// Route with the mapping in effect at epoch start. Accounts are created
	// lazily here, so every referenced account resolves to exactly one shard.
	shardLoad := make([]int, e.cfg.NumShards)
	activity := make(map[AccountID]float64)
	crossCount := 0
	for i := range txs {
		tx := &txs[i]
		from := e.resolve(tx.From)
		to := e.resolve(tx.To)
		shardLoad[from]++
		shardLoad[to]++
		if from != to {
			crossCount++
		}
		activity[tx.From] += tx.Weight
		activity[tx.To] += tx.Weight
	}
	crossRatio := 0.0
	if len(txs) > 0 {
		crossRatio = float64(crossCount) / float64(len(txs))
	}

	e.graph.Decay()
	e.graph.Observe(txs)
	e.stats.RecordEpoch(epoch, shardLoad, crossRatio, crossCount, activity)
	e.updateActivityEWMA(activity)

	result, err := e.protocol.Assign(e.activeAccounts(), e.mapping, e.graph, e.stats, epoch)
	if err != nil {
		return err
	}
	if err := e.validateMapping(result.Mapping, epoch); err != nil {
		return err
	}
	e.mapping = result.Mapping

	e.records = append(e.records, EpochRecord{
		Epoch:        epoch,
		TotalTx:      len(txs),
		CrossTx:      crossCount,
		ShardLoad:    shardLoad,
		Migrated:     len(result.Migrated),
		DecisionCost: result.Cost,
	})
	logrus.Debugf("epoch %d: tx=%d cross=%.3f migrated=%d", epoch, len(txs), crossRatio, len(result.Migrated))
	return nil
}

// resolve returns the shard of id under the current mapping, creating the
// account with its hash-based default placement on first reference.
func (e *Engine) resolve(id AccountID) ShardID {
	if shard, ok := e.mapping[id]; ok {
		return shard
	}
	if _, ok := e.accounts[id]; !ok {
		e.accounts[id] = &Account{ID: id, Tag: tagFor(id, e.hot)}
	}
	shard := staticShard(id, e.cfg.NumShards)
	e.mapping[id] = shard
	return shard
}

func (e *Engine) updateActivityEWMA(activity map[AccountID]float64) {
	alpha := e.cfg.ActivityDecay
	if alpha <= 0 {
		alpha = 0.3
	}
	for id, acct := range e.accounts {
		acct.Activity = alpha*activity[id] + (1-alpha)*acct.Activity
	}
}

// activeAccounts returns every account referenced so far, sorted by id so
// protocol inputs are deterministic.
func (e *Engine) activeAccounts() []*Account {
	out := make([]*Account, 0, len(e.accounts))
	for _, acct := range e.accounts {
		out = append(out, acct)
	}
	sortAccounts(out)
	return out
}

// validateMapping enforces the protocol contract: every active account maps
// to exactly one in-range shard. A violation aborts the run.
func (e *Engine) validateMapping(m Mapping, epoch int) error {
	if m == nil {
		return invariantErrorf(e.protocol.Name(), epoch, "protocol returned a nil mapping")
	}
	for id := range e.accounts {
		shard, ok := m[id]
		if !ok {
			return invariantErrorf(e.protocol.Name(), epoch, "mapping omits active account %s", id)
		}
		if shard < 0 || int(shard) >= e.cfg.NumShards {
			return invariantErrorf(e.protocol.Name(), epoch, "account %s mapped to out-of-range shard %d", id, shard)
		}
	}
	return nil
}
