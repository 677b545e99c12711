package state

import "expvar"

var (
	metricEventsApplied = expvar.NewInt("state_events_applied_total")
	metricEventsDropped = expvar.NewMap("state_events_dropped_total")
)
