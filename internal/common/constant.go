package common

// AuthScheme is the Authorization header scheme expected on protected
// HTTP routes.
const AuthScheme = "Bearer"

// DefaultTokenExpiresAt is the fixed exp claim (unix seconds) stamped on
// every access token unless overridden by config.
const DefaultTokenExpiresAt int64 = 10000000000

// ServiceName identifies this service in health checks and logs.
const ServiceName = "gophcal"
