package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHome     = "/"
	RouteCallback = "/callback"
	RouteRooms    = "/rooms"
	RouteRefresh  = "/refresh"
	RouteLogout   = "/logout"

	// Operational Routes
	RouteMetrics = "/metrics"
	RouteHealth  = "/healthz"
)
