// Package metrics wraps the counters the pipeline exposes for operational
// visibility: decode hits/misses/truncations, merge outcomes, queue drops,
// and ordering-buffer timeouts.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder owns one Prometheus CounterVec per tracked outcome. A nil
// *Recorder is valid and every method on it is a no-op, so callers that
// don't care about metrics (most tests) can pass nil instead of threading a
// real Recorder through.
type Recorder struct {
	decodeHits         *prometheus.CounterVec
	decodeMisses       *prometheus.CounterVec
	decodeTruncations  *prometheus.CounterVec
	utf8Rejects        *prometheus.CounterVec
	mergeSuccesses     *prometheus.CounterVec
	mergeMismatches    *prometheus.CounterVec
	queueDrops         prometheus.Counter
	orderingTimeouts   *prometheus.CounterVec
}

// NewRecorder constructs a Recorder and registers its collectors with reg.
// Passing prometheus.NewRegistry() (rather than the global DefaultRegisterer)
// keeps metrics registration side-effect-free for tests that build multiple
// Recorders in the same process.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		decodeHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexstream", Name: "decode_hits_total",
			Help: "Events successfully decoded, by protocol.",
		}, []string{"protocol"}),
		decodeMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexstream", Name: "decode_misses_total",
			Help: "Discriminators with no registered decoder, by source.",
		}, []string{"source"}),
		decodeTruncations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexstream", Name: "decode_truncations_total",
			Help: "Payloads shorter than their registered layout, by protocol.",
		}, []string{"protocol"}),
		utf8Rejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexstream", Name: "decode_utf8_rejects_total",
			Help: "Trailing string fields rejected for invalid UTF-8, by protocol.",
		}, []string{"protocol"}),
		mergeSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexstream", Name: "merge_successes_total",
			Help: "Outer/inner partial pairs successfully merged, by protocol.",
		}, []string{"protocol"}),
		mergeMismatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexstream", Name: "merge_mismatches_total",
			Help: "Partial pairs that failed to merge (type or key mismatch), by protocol.",
		}, []string{"protocol"}),
		queueDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dexstream", Name: "queue_drops_total",
			Help: "Events dropped because the delivery ring was full.",
		}),
		orderingTimeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexstream", Name: "ordering_timeouts_total",
			Help: "Ordering-buffer flushes triggered by a timeout rather than completeness, by mode.",
		}, []string{"mode"}),
	}

	reg.MustRegister(
		r.decodeHits, r.decodeMisses, r.decodeTruncations, r.utf8Rejects,
		r.mergeSuccesses, r.mergeMismatches, r.queueDrops, r.orderingTimeouts,
	)

	return r
}

func (r *Recorder) DecodeHit(protocol string) {
	if r == nil {
		return
	}

	r.decodeHits.WithLabelValues(protocol).Inc()
}

func (r *Recorder) DecodeMiss(source string) {
	if r == nil {
		return
	}

	r.decodeMisses.WithLabelValues(source).Inc()
}

func (r *Recorder) DecodeTruncation(protocol string) {
	if r == nil {
		return
	}

	r.decodeTruncations.WithLabelValues(protocol).Inc()
}

func (r *Recorder) UTF8Reject(protocol string) {
	if r == nil {
		return
	}

	r.utf8Rejects.WithLabelValues(protocol).Inc()
}

func (r *Recorder) MergeSuccess(protocol string) {
	if r == nil {
		return
	}

	r.mergeSuccesses.WithLabelValues(protocol).Inc()
}

func (r *Recorder) MergeMismatch(protocol string) {
	if r == nil {
		return
	}

	r.mergeMismatches.WithLabelValues(protocol).Inc()
}

func (r *Recorder) QueueDrop() {
	if r == nil {
		return
	}

	r.queueDrops.Inc()
}

func (r *Recorder) OrderingTimeout(mode string) {
	if r == nil {
		return
	}

	r.orderingTimeouts.WithLabelValues(mode).Inc()
}
