package models

import "time"

// Template is the live shared layout that dependent content entries are
// regenerated against. Its content only ever changes by publishing one of
// its design versions.
type Template struct {
	ID          int64
	LayoutID    int64
	Title       string
	Description string
	Body        string
	PageType    string
	UpdatedAt   time.Time
}

// DesignVersion is a draft revision of a template. Publishing it stamps
// PublishedAt and copies its fields into the live Template.
type DesignVersion struct {
	ID          int64
	TemplateID  int64
	LayoutID    int64
	Title       string
	Description string
	Body        string
	PageType    string
	PublishedAt *time.Time
}
