package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()

	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	m := <-ch

	var pb dto.Metric
	require.NoError(t, m.Write(&pb))

	if pb.Counter != nil {
		return pb.Counter.GetValue()
	}

	return 0
}

func TestRecorder_NilIsNoOp(t *testing.T) {
	var r *Recorder

	require.NotPanics(t, func() {
		r.DecodeHit("PumpFun")
		r.DecodeMiss("log")
		r.QueueDrop()
		r.OrderingTimeout("Ordered")
	})
}

func TestRecorder_IncrementsCounters(t *testing.T) {
	require := require.New(t)

	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.DecodeHit("PumpFun")
	r.DecodeHit("PumpFun")
	r.QueueDrop()

	require.Equal(float64(2), counterValue(t, r.decodeHits.WithLabelValues("PumpFun")))
	require.Equal(float64(1), counterValue(t, r.queueDrops))
}
