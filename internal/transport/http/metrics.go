package httptransport

import "expvar"

var (
	metricQueryTotal      = expvar.NewMap("http_query_total")
	metricCommandRequests = expvar.NewMap("http_command_requests_total")
	metricCommandErrors   = expvar.NewMap("http_command_errors_total")
	metricAdminReconnects = expvar.NewInt("http_admin_reconnect_total")
)
