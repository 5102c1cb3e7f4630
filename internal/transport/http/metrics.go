package httptransport

import "expvar"

var (
	metricRequestErrors    = expvar.NewInt("http_request_errors_total")
	metricSessionCreate    = expvar.NewInt("http_session_create_total")
	metricActionSubmit     = expvar.NewInt("http_action_submit_total")
	metricActionErrors     = expvar.NewInt("http_action_submit_errors_total")
	metricSnapshotRestores = expvar.NewInt("http_snapshot_restore_total")
)
