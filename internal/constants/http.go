package constants

import "time"

// HTTP Server Timeouts
const (
	HTTPReadTimeoutSecs = 30
	HTTPIdleTimeoutSecs = 120
	HTTPReadTimeout     = HTTPReadTimeoutSecs * time.Second
	HTTPIdleTimeout     = HTTPIdleTimeoutSecs * time.Second
)

// Content Types
const (
	ContentTypeJSON = "application/json"
)

// HTTP Header Names
const (
	HeaderContentType = "Content-Type"
)
