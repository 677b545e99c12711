package feed

import "expvar"

var (
	metricUpdatesPublished  = expvar.NewInt("feed_updates_published_total")
	metricUpdatesDropped    = expvar.NewInt("feed_updates_dropped_total")
	metricSubscribersActive = expvar.NewInt("feed_subscribers_active")
	metricSSEConnections    = expvar.NewInt("feed_sse_connections_total")
)
