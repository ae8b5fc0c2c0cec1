package constants

import "time"

const (
	EnrichmentLockPrefix = "enrichment:lock" // CacheBuilder adds colon before the restaurant id
	EnrichmentLockTTL    = 10 * time.Minute
)
