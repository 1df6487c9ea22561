// Package metrics provides process-level counters for the wallet core.
// Counters are atomic; nothing here is exported over the network.
package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// Derivation metrics
	derivationsTotal  atomic.Int64
	derivationErrors  atomic.Int64
	derivationLatency atomic.Int64

	// Signing metrics
	signaturesTotal atomic.Int64
	signErrors      atomic.Int64
	signLatency     atomic.Int64

	// Storage metrics
	unlocksTotal    atomic.Int64
	decryptFailures atomic.Int64

	// Per-chain signature counts, chain id -> *atomic.Int64
	perChain sync.Map
}

// Global is the process-wide metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordDerivation records one address or key derivation.
func (m *Metrics) RecordDerivation(duration time.Duration, err error) {
	m.derivationsTotal.Add(1)
	m.derivationLatency.Add(duration.Nanoseconds())
	if err != nil {
		m.derivationErrors.Add(1)
	}
}

// RecordSignature records one signing attempt on chain.
func (m *Metrics) RecordSignature(chain string, duration time.Duration, err error) {
	m.signaturesTotal.Add(1)
	m.signLatency.Add(duration.Nanoseconds())
	if err != nil {
		m.signErrors.Add(1)
		return
	}
	counter, _ := m.perChain.LoadOrStore(chain, new(atomic.Int64))
	counter.(*atomic.Int64).Add(1)
}

// RecordUnlock records a seed decryption. A failed decryption counts as
// one decrypt failure whatever its cause.
func (m *Metrics) RecordUnlock(err error) {
	m.unlocksTotal.Add(1)
	if err != nil {
		m.decryptFailures.Add(1)
	}
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	DerivationsTotal  int64            `json:"derivations_total"`
	DerivationErrors  int64            `json:"derivation_errors"`
	SignaturesTotal   int64            `json:"signatures_total"`
	SignErrors        int64            `json:"sign_errors"`
	UnlocksTotal      int64            `json:"unlocks_total"`
	DecryptFailures   int64            `json:"decrypt_failures"`
	SignaturesByChain map[string]int64 `json:"signatures_by_chain,omitempty"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		DerivationsTotal: m.derivationsTotal.Load(),
		DerivationErrors: m.derivationErrors.Load(),
		SignaturesTotal:  m.signaturesTotal.Load(),
		SignErrors:       m.signErrors.Load(),
		UnlocksTotal:     m.unlocksTotal.Load(),
		DecryptFailures:  m.decryptFailures.Load(),
	}
	m.perChain.Range(func(k, v any) bool {
		if s.SignaturesByChain == nil {
			s.SignaturesByChain = make(map[string]int64)
		}
		s.SignaturesByChain[k.(string)] = v.(*atomic.Int64).Load()
		return true
	})
	return s
}

// Chains returns the chains that produced at least one signature, sorted.
func (s Snapshot) Chains() []string {
	out := make([]string, 0, len(s.SignaturesByChain))
	for c := range s.SignaturesByChain {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// SignaturesFor returns the successful signature count of chain.
func (m *Metrics) SignaturesFor(chain string) int64 {
	v, ok := m.perChain.Load(chain)
	if !ok {
		return 0
	}
	return v.(*atomic.Int64).Load()
}

// DerivationLatencyAvgMs returns the average derivation latency in
// milliseconds, or 0 before the first derivation.
func (m *Metrics) DerivationLatencyAvgMs() float64 {
	return avgMs(m.derivationLatency.Load(), m.derivationsTotal.Load())
}

// SignLatencyAvgMs returns the average signing latency in milliseconds,
// or 0 before the first signature.
func (m *Metrics) SignLatencyAvgMs() float64 {
	return avgMs(m.signLatency.Load(), m.signaturesTotal.Load())
}

func avgMs(nanos, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(nanos) / float64(count) / 1e6
}

// Reset resets all metrics to zero.
// Useful for testing.
func (m *Metrics) Reset() {
	m.derivationsTotal.Store(0)
	m.derivationErrors.Store(0)
	m.derivationLatency.Store(0)
	m.signaturesTotal.Store(0)
	m.signErrors.Store(0)
	m.signLatency.Store(0)
	m.unlocksTotal.Store(0)
	m.decryptFailures.Store(0)
	m.perChain.Range(func(k, _ any) bool {
		m.perChain.Delete(k)
		return true
	})
}
