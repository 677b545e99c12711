package session

import "expvar"

var (
	metricCommands         = expvar.NewMap("session_commands_total")
	metricCommandsRejected = expvar.NewMap("session_commands_rejected_total")
	metricModeSwitches     = expvar.NewInt("session_mode_switches_total")
)
