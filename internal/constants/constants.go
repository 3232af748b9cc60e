// Package constants provides a centralized location for the tuning values
// and magic numbers used throughout the inventory pipeline.
package constants

import "time"

// API client constants
const (
	// DefaultBaseURL is the public GitHub REST API root.
	DefaultBaseURL = "https://api.github.com"

	// EnterpriseAPIPath is appended to GitHub Enterprise Server hosts.
	EnterpriseAPIPath = "/api/v3"

	// RequestTimeout bounds every individual HTTP call.
	RequestTimeout = 30 * time.Second

	// PageSize is the per_page value for every list endpoint. A page with
	// exactly this many items is taken to mean another page exists.
	PageSize = 100

	// OrganizationCap bounds organization enumeration unless --fetch-all is set.
	OrganizationCap = 100

	// ErrorMessageLimit bounds the diagnostic text carried by API errors.
	ErrorMessageLimit = 200
)

// Rate limiting constants
const (
	// RateLimitLowWatermark is the threshold below which rate limit
	// warnings are logged.
	RateLimitLowWatermark = 100
)

// Pipeline constants
const (
	// BatchSize is the number of records an organization task hands to the
	// reporter at once.
	BatchSize = 10

	// TUIUpdateInterval is the minimum time between TUI progress updates.
	TUIUpdateInterval = 50 * time.Millisecond
)

// ResultsDir is the directory bucketed report files are written to.
const ResultsDir = "results"
