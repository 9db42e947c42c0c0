// Package models holds the persistence-layer entities of the versioning
// engine. Content versions are append-only snapshots; the catalog is a
// rebuildable projection of the latest version per logical number.
package models

import "time"

// Content status codes. StatusDisabled is the sentinel that renders a
// catalog entry "Inactive"; everything else is "Active".
const (
	StatusActive   = 0
	StatusDisabled = 255
)

// ContentVersion is one immutable snapshot of a logical content number.
// Version numbers start at 1 and grow by exactly 1 per successful save;
// the highest number is the current version. Historical rows are never
// mutated or deleted.
type ContentVersion struct {
	ID             string // unique version id (uuid)
	ContentNumber  int64  // logical number, stable across versions
	VersionNumber  int
	Title          string
	Body           string
	HeaderScript   string
	FooterScript   string
	BannerImage    string
	Status         int
	Category       string
	Introduction   string
	PublishedAt    *time.Time
	UpdatedAt      time.Time
	EditorID       string
	TemplateID     *int64
	ExpiresAt      *time.Time
	RedirectTarget string
	URLPath        string
	GroupKey       string
}

// Published reports whether this version carries a publish timestamp.
func (v *ContentVersion) Published() bool {
	return v.PublishedAt != nil
}
