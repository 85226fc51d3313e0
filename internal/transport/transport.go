// Package transport simulates the network between the client and the store:
// every request incurs a uniform random delay, and write requests roll an
// injected failure before the store is touched. A rejected write is
// guaranteed to have made zero change to the store; that guarantee is the
// basis of the coordinator's rollback contract.
package transport

import (
	"math/rand"
	"sync"
	"time"

	stderrors "talentflow-backend/internal/common/errors"
	"talentflow-backend/internal/common/logger"
	"talentflow-backend/internal/common/metrics"
)

// OpKind distinguishes reads from writes. Only writes can fail.
type OpKind string

const (
	OpRead  OpKind = "read"
	OpWrite OpKind = "write"
)

// Config carries the simulation parameters.
type Config struct {
	MinLatency       time.Duration
	MaxLatency       time.Duration
	WriteFailureRate float64
}

// Transport applies latency and failure injection in front of a store.
type Transport struct {
	cfg    Config
	logger logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a transport with its own randomness source. Pass a fixed-seed
// rand.Source for deterministic behavior in tests.
func New(cfg Config, src rand.Source, log logger.Logger) *Transport {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Transport{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "transport"}),
		rng:    rand.New(src),
	}
}

// shouldFail is the pure failure decision: one uniform draw against the
// configured probability. Evaluated before any store call.
func shouldFail(rng *rand.Rand, rate float64) bool {
	if rate <= 0 {
		return false
	}
	return rng.Float64() < rate
}

// delay draws the simulated latency for one request.
func (t *Transport) delay() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	span := t.cfg.MaxLatency - t.cfg.MinLatency
	if span <= 0 {
		return t.cfg.MinLatency
	}
	return t.cfg.MinLatency + time.Duration(t.rng.Int63n(int64(span)))
}

func (t *Transport) roll() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return shouldFail(t.rng, t.cfg.WriteFailureRate)
}

// do wraps one logical request. The delay is a plain sleep: an issued request
// always resolves, there is no cancellation distinct from the delay. For
// writes the failure roll happens first, so fn never runs for a failed write.
func (t *Transport) do(kind OpKind, op string, fn func() error) error {
	metrics.TransportRequests.WithLabelValues(string(kind), op).Inc()

	d := t.delay()
	metrics.TransportLatency.WithLabelValues(string(kind)).Observe(d.Seconds())
	time.Sleep(d)

	if kind == OpWrite && t.roll() {
		metrics.TransportWriteFailures.WithLabelValues(op).Inc()
		t.logger.Warn("injected write failure", map[string]interface{}{
			"op":    op,
			"delay": d.String(),
		})
		return stderrors.NewTransientWriteFailure(op)
	}

	return fn()
}
