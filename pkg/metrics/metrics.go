package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	KafkaRecordsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_records_consumed_total",
			Help: "Number of records polled from Kafka",
		},
		[]string{"topic"},
	)
	KafkaRecordsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_records_dispatched_total",
			Help: "Number of successful handler invocations",
		},
		[]string{"topic"},
	)
	KafkaHandlerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_handler_failures_total",
			Help: "Number of handler invocations that returned an error or panicked",
		},
		[]string{"topic"},
	)
	KafkaPollErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_poll_errors_total",
			Help: "Number of transport errors that stopped the poll loop",
		},
		[]string{"topic"},
	)
	KafkaLastOffset = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kafka_consumer_last_offset",
			Help: "Offset of the most recently consumed record",
		},
		[]string{"topic", "group_id"},
	)
	KafkaGroupsRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kafka_consumer_groups_running",
			Help: "Number of consumer groups currently in the running state",
		},
	)
)

var (
	BufferOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_buffer_operations_total",
			Help: "Recent-records buffer operations",
		},
		[]string{"op"}, // add|evicted|expired
	)
	BufferSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "record_buffer_size",
			Help: "Number of records currently buffered",
		},
	)
	ArchiveOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_archive_operations_total",
			Help: "Record archive outcomes",
		},
		[]string{"result"}, // saved|invalid|failed
	)
)

func all() []prometheus.Collector {
	return []prometheus.Collector{
		KafkaRecordsConsumed, KafkaRecordsDispatched, KafkaHandlerFailures, KafkaPollErrors,
		KafkaLastOffset, KafkaGroupsRunning,
		BufferOps, BufferSize, ArchiveOps,
	}
}

// MustRegister — регистрирует метрики в глобальном реестре.
// Повторный вызов безопасен: AlreadyRegisteredError игнорируется.
func MustRegister() {
	MustRegisterIn(prometheus.DefaultRegisterer)
}

// MustRegisterIn — то же для произвольного реестра (тесты, встраивание).
func MustRegisterIn(reg prometheus.Registerer) {
	for _, c := range all() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			panic(err)
		}
	}
}
