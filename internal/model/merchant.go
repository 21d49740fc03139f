package model

import "time"

// Merchant is an admin-curated merchant record consumed by the top tier of
// the categorization cascade. Administrators create and edit these; the
// classifier only reads them.
type Merchant struct {
	LastUpdated    time.Time
	Name           string
	NormalizedName string
	CategoryID     string
	Patterns       []string // wildcard patterns, stored JSON-encoded
	ID             int64
	IsActive       bool
}
