package models

import "time"

// Catalog status texts derived from the version status code.
const (
	CatalogStatusActive   = "Active"
	CatalogStatusInactive = "Inactive"
)

// CatalogEntry is the denormalized listing row, 0-or-1 per logical content
// number, always mirroring the latest version's projectable fields.
type CatalogEntry struct {
	ContentNumber int64
	Title         string
	BannerImage   string
	StatusText    string
	PublishedAt   *time.Time
	UpdatedAt     time.Time
	URLPath       string
	TemplateID    *int64
	Introduction  string
	Author        string // placeholder until author profiles land
}
