package sim

import (
	"math/rand"
)

// WorkloadGenerator produces the transaction batch for each epoch. It is a
// pure function of (epoch, config, rng state): given the same seed it emits
// the identical stream, which is what allows head-to-head protocol
// comparisons under identical load.
type WorkloadGenerator struct {
	cfg   *Config
	zipf  *rand.Zipf
	base  *rand.Rand
	spike *rand.Rand
	hot   []AccountID
}

// NewWorkloadGenerator wires a generator to the run's partitioned RNG.
// The config must already be validated.
func NewWorkloadGenerator(cfg *Config, rng *PartitionedRNG) *WorkloadGenerator {
	base := rng.ForSubsystem(SubsystemWorkload)
	return &WorkloadGenerator{
		cfg:   cfg,
		zipf:  rand.NewZipf(base, cfg.PowerLawAlpha, 1, uint64(cfg.NumAccounts-1)),
		base:  base,
		spike: rng.ForSubsystem(SubsystemSpike),
		hot:   cfg.hotAccountIDs(),
	}
}

// GenerateEpoch returns the ordered transaction batch for one epoch:
// TxPerEpoch baseline transfers drawn from the power-law universe, plus a
// burst of SpikeTxCount transfers into the hot cluster when the configured
// spike epoch arrives. Self-transfers are redrawn on the receiver side.
func (g *WorkloadGenerator) GenerateEpoch(epoch int) []Transaction {
	n := g.cfg.TxPerEpoch
	spiking := epoch == g.cfg.SpikeEpoch && len(g.hot) > 0
	if spiking {
		n += g.cfg.SpikeTxCount
	}
	txs := make([]Transaction, 0, n)

	for i := 0; i < g.cfg.TxPerEpoch; i++ {
		from := accountIDFor(int(g.zipf.Uint64()))
		to := accountIDFor(int(g.zipf.Uint64()))
		for to == from {
			to = accountIDFor(int(g.zipf.Uint64()))
		}
		txs = append(txs, Transaction{
			From:   from,
			To:     to,
			Epoch:  epoch,
			Weight: g.base.ExpFloat64(),
			Kind:   TxBaseline,
		})
	}

	if spiking {
		for i := 0; i < g.cfg.SpikeTxCount; i++ {
			from := accountIDFor(g.spike.Intn(g.cfg.NumAccounts))
			to := g.hot[g.spike.Intn(len(g.hot))]
			for to == from {
				from = accountIDFor(g.spike.Intn(g.cfg.NumAccounts))
			}
			txs = append(txs, Transaction{
				From:   from,
				To:     to,
				Epoch:  epoch,
				Weight: g.spike.ExpFloat64(),
				Kind:   TxSpike,
			})
		}
	}

	return txs
}
