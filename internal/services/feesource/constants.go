package feesource

import "time"

const (
	DefaultCacheTTL    = 10 * time.Minute
	DefaultLoadTimeout = 5 * time.Second
)

// Operation names reported to the metrics collector
const (
	opLoad       = "load"
	opInvalidate = "invalidate"
	opSave       = "save"
)
