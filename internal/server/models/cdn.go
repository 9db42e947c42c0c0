package models

// CDN purge outcome per edge node.
const (
	CdnStatusPurged = "purged"
	CdnStatusFailed = "failed"
)

// CdnResult describes the outcome of invalidating one path on one edge node
// after a deploy.
type CdnResult struct {
	Node   string
	Path   string
	Status string
	Error  string
}

// Redirect maps a retired URL path to its replacement after a title change.
type Redirect struct {
	OldPath string
	NewPath string
}
