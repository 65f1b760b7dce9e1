package sim

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// EpochRecord captures one epoch's measurements. Records are append-only
// and immutable once emitted; a run's ordered record sequence is its full
// observable output.
type EpochRecord struct {
	Epoch        int
	TotalTx      int
	CrossTx      int
	ShardLoad    []int
	Migrated     int
	DecisionCost int64
}

// CrossRatio returns the fraction of the epoch's transactions whose sender
// and receiver resolved to different shards.
func (r *EpochRecord) CrossRatio() float64 {
	if r.TotalTx == 0 {
		return 0
	}
	return float64(r.CrossTx) / float64(r.TotalTx)
}

// ScenarioSummary is the reduction of a run's record sequence, consumed by
// callers for reporting and export. All statistics are pure functions of the
// ordered records and the cost model captured at aggregator construction.
type ScenarioSummary struct {
	Protocol string
	Epochs   int
	TotalTx  int

	MeanCrossRatio     float64
	CrossRatioVariance float64
	PeakCrossRatio     float64
	PeakCrossEpoch     int

	TotalMigrations  int
	MeanMigrations   float64
	MeanLoadCV       float64 // mean per-epoch coefficient of variation of shard loads
	PeakImbalance    float64 // max over epochs of max/min shard load
	MeanDecisionCost float64

	// Cost-model outputs: latencies in seconds, throughput in tx/s.
	MeanLatency    float64
	PeakLatency    float64
	MeanThroughput float64
	PeakThroughput float64
}

// Aggregator reduces EpochRecords into a ScenarioSummary. No hidden state:
// Summarize is a pure reduction over the ingested sequence.
type Aggregator struct {
	protocol string
	cfg      *Config
	records  []EpochRecord
}

// NewAggregator creates an aggregator bound to a run's protocol name and
// cost model.
func NewAggregator(protocol string, cfg *Config) *Aggregator {
	return &Aggregator{protocol: protocol, cfg: cfg}
}

// Ingest appends one epoch record.
func (a *Aggregator) Ingest(rec EpochRecord) {
	a.records = append(a.records, rec)
}

// IngestAll appends a run's entire record sequence in order.
func (a *Aggregator) IngestAll(recs []EpochRecord) {
	a.records = append(a.records, recs...)
}

// Summarize reduces the ingested records. Safe on an empty aggregator.
func (a *Aggregator) Summarize() ScenarioSummary {
	s := ScenarioSummary{Protocol: a.protocol, Epochs: len(a.records)}
	if len(a.records) == 0 {
		return s
	}

	ratios := make([]float64, len(a.records))
	for i := range a.records {
		rec := &a.records[i]
		ratio := rec.CrossRatio()
		ratios[i] = ratio

		s.TotalTx += rec.TotalTx
		s.TotalMigrations += rec.Migrated
		s.MeanDecisionCost += float64(rec.DecisionCost)
		if ratio > s.PeakCrossRatio {
			s.PeakCrossRatio = ratio
			s.PeakCrossEpoch = rec.Epoch
		}

		if cv := loadCV(rec.ShardLoad); !math.IsNaN(cv) {
			s.MeanLoadCV += cv
		}
		if imb := imbalanceOf(rec.ShardLoad); imb > s.PeakImbalance {
			s.PeakImbalance = imb
		}

		latency, throughput := a.costModel(rec)
		s.MeanLatency += latency
		s.MeanThroughput += throughput
		if latency > s.PeakLatency {
			s.PeakLatency = latency
		}
		if throughput > s.PeakThroughput {
			s.PeakThroughput = throughput
		}
	}

	n := float64(len(a.records))
	s.MeanCrossRatio = stat.Mean(ratios, nil)
	s.CrossRatioVariance = stat.Variance(ratios, nil)
	s.MeanMigrations = float64(s.TotalMigrations) / n
	s.MeanLoadCV /= n
	s.MeanDecisionCost /= n
	s.MeanLatency /= n
	s.MeanThroughput /= n
	return s
}

// Records returns the ingested sequence.
func (a *Aggregator) Records() []EpochRecord {
	return a.records
}

// costModel maps one epoch onto the two-constant latency model: intra-shard
// transactions cost IntraShardLatencySec, cross-shard ones
// CrossShardLatencySec, and throughput is transactions per epoch second.
func (a *Aggregator) costModel(rec *EpochRecord) (latency, throughput float64) {
	if rec.TotalTx == 0 {
		return 0, 0
	}
	intra := rec.TotalTx - rec.CrossTx
	total := float64(intra)*a.cfg.IntraShardLatencySec + float64(rec.CrossTx)*a.cfg.CrossShardLatencySec
	return total / float64(rec.TotalTx), float64(rec.TotalTx) / a.cfg.EpochDurationSec
}

// loadCV is the coefficient of variation of the per-shard load vector.
func loadCV(loads []int) float64 {
	if len(loads) == 0 {
		return math.NaN()
	}
	vals := make([]float64, len(loads))
	for i, l := range loads {
		vals[i] = float64(l)
	}
	mean, std := stat.MeanStdDev(vals, nil)
	if mean == 0 {
		return math.NaN()
	}
	return std / mean
}
