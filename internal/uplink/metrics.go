package uplink

import "expvar"

var (
	metricDialTotal          = expvar.NewInt("uplink_dial_total")
	metricDialFailedTotal    = expvar.NewInt("uplink_dial_failed_total")
	metricRetryTotal         = expvar.NewInt("uplink_retry_total")
	metricUnavailableTotal   = expvar.NewInt("uplink_unavailable_total")
	metricFramesInTotal      = expvar.NewInt("uplink_frames_in_total")
	metricFramesOutTotal     = expvar.NewInt("uplink_frames_out_total")
	metricFramesDroppedTotal = expvar.NewInt("uplink_frames_dropped_total")
	metricSendRejectedTotal  = expvar.NewInt("uplink_send_rejected_total")
)
