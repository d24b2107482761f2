package metrics_test

import (
	"testing"

	"github.com/Gunvolt24/kgroup/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMustRegister_IsIdempotent(t *testing.T) {
	// Должно выполняться без паники даже при повторном вызове.
	metrics.MustRegister()
	metrics.MustRegister()
}

func TestMustRegisterIn_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.MustRegisterIn(reg)
	metrics.MustRegisterIn(reg)

	metrics.KafkaGroupsRunning.Inc()
	defer metrics.KafkaGroupsRunning.Dec()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "kafka_consumer_groups_running" {
			found = true
		}
	}
	if !found {
		t.Fatalf("kafka_consumer_groups_running not gathered")
	}
}

func TestKafkaCounters_Inc(t *testing.T) {
	metrics.MustRegister()

	beforeConsumed := testutil.ToFloat64(metrics.KafkaRecordsConsumed.WithLabelValues("orders"))
	beforeDispatched := testutil.ToFloat64(metrics.KafkaRecordsDispatched.WithLabelValues("orders"))
	beforeFailed := testutil.ToFloat64(metrics.KafkaHandlerFailures.WithLabelValues("orders"))

	metrics.KafkaRecordsConsumed.WithLabelValues("orders").Inc()
	metrics.KafkaRecordsDispatched.WithLabelValues("orders").Inc()
	metrics.KafkaHandlerFailures.WithLabelValues("orders").Inc()

	if got := testutil.ToFloat64(metrics.KafkaRecordsConsumed.WithLabelValues("orders")); got != beforeConsumed+1 {
		t.Fatalf("KafkaRecordsConsumed: got=%v want=%v", got, beforeConsumed+1)
	}
	if got := testutil.ToFloat64(metrics.KafkaRecordsDispatched.WithLabelValues("orders")); got != beforeDispatched+1 {
		t.Fatalf("KafkaRecordsDispatched: got=%v want=%v", got, beforeDispatched+1)
	}
	if got := testutil.ToFloat64(metrics.KafkaHandlerFailures.WithLabelValues("orders")); got != beforeFailed+1 {
		t.Fatalf("KafkaHandlerFailures: got=%v want=%v", got, beforeFailed+1)
	}
}

func TestBufferOps_CountersByLabel(t *testing.T) {
	metrics.MustRegister()

	addBefore := testutil.ToFloat64(metrics.BufferOps.WithLabelValues("add"))
	evictedBefore := testutil.ToFloat64(metrics.BufferOps.WithLabelValues("evicted"))

	metrics.BufferOps.WithLabelValues("add").Inc()
	metrics.BufferOps.WithLabelValues("add").Inc()

	if got := testutil.ToFloat64(metrics.BufferOps.WithLabelValues("add")); got != addBefore+2 {
		t.Fatalf("BufferOps(add): got=%v want=%v", got, addBefore+2)
	}
	if got := testutil.ToFloat64(metrics.BufferOps.WithLabelValues("evicted")); got != evictedBefore {
		t.Fatalf("BufferOps(evicted): got=%v want=%v", got, evictedBefore)
	}
}
