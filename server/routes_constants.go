package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteUser     = "/user"
	RouteResetKey = "/user/reset_key"
	RouteCallback = "/callback"
	RouteLogin    = "/login"
	RouteWeChat   = "/wechat"
	RouteHealthz  = "/healthz"

	// Web client landing paths, relative to the configured web base URL.
	// The fragment routes to the user page of the single-page client.
	WebPathAuthenticated = "/#/user"
	WebPathAnonymous     = "/"
)
