package illustration

import "expvar"

var (
	metricQueuedTotal       = expvar.NewInt("illustration_push_queued_total")
	metricDroppedTotal      = expvar.NewInt("illustration_push_dropped_total")
	metricRetryTotal        = expvar.NewInt("illustration_push_retry_total")
	metricRetryDroppedTotal = expvar.NewInt("illustration_push_retry_dropped_total")
	metricSentTotal         = expvar.NewInt("illustration_push_sent_total")
	metricFailedTotal       = expvar.NewInt("illustration_push_failed_total")
	metricCircuitOpenTotal  = expvar.NewInt("illustration_push_circuit_open_total")
	metricQueueLen          = expvar.NewInt("illustration_push_queue_len")
)
