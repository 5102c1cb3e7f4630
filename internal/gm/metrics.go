package gm

import "expvar"

var (
	metricSessionCreateTotal = expvar.NewInt("gm_session_create_total")
	metricOpeningTotal       = expvar.NewInt("gm_opening_scene_total")
	metricOpeningFallback    = expvar.NewInt("gm_opening_fallback_total")
	metricActionTotal        = expvar.NewInt("gm_action_total")
	metricActionRejected     = expvar.NewInt("gm_action_rejected_total")
	metricNarratorFailures   = expvar.NewInt("gm_narrator_failures_total")
	metricRollTotal          = expvar.NewInt("gm_roll_total")
	metricIllustrationQueued = expvar.NewInt("gm_illustration_queued_total")
	metricJanitorReaped      = expvar.NewInt("gm_janitor_reaped_total")
)
