package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ListOperation("add", OutcomeOK)
	r.ListOperation("add", OutcomeOK)
	r.ListOperation("add", OutcomeRejected)
	r.ListCreated()
	r.ObserveRPC("/feira.v1.ShoppingService/AddToList", "ok", 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.listOps.WithLabelValues("add", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.listOps.WithLabelValues("add", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.listsCreated))

	n, err := testutil.GatherAndCount(reg, "feira_rpc_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ListOperation("add", OutcomeOK)
		r.ListCreated()
		r.ObserveRPC("p", "ok", time.Second)
	})
}
