package simulation

import "expvar"

var (
	metricTicks         = expvar.NewInt("simulation_ticks_total")
	metricEventsApplied = expvar.NewInt("simulation_events_applied_total")
	metricRunning       = expvar.NewInt("simulation_running")
)
