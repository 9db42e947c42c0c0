// Package handlers implements the two commands of the versioning engine:
// saving a content edit and publishing a template design. Expected business
// outcomes (validation failure, not-found, operation failure) are encoded
// in tagged results; errors are reserved for rule violations raised by
// collaborators and for dispatch failures.
package handlers

import "time"

// SaveContent applies one edit to a logical content number, producing the
// next immutable version.
type SaveContent struct {
	ContentNumber int64      `validate:"required,gt=0"`
	Title         string     `validate:"required,max=254"`
	Body          string     `validate:"required"`
	HeaderScript  string     `validate:"-"`
	FooterScript  string     `validate:"-"`
	BannerImage   string     `validate:"-"`
	ContentType   string     `validate:"-"`
	Category      string     `validate:"max=64"`
	Introduction  string     `validate:"max=512"`
	PublishedAt   *time.Time `validate:"-"`
	EditorID      string     `validate:"required"`
}

func (SaveContent) Name() string { return "content.save" }

// PublishDesign publishes a template design version and regenerates every
// dependent content entry against it.
type PublishDesign struct {
	DesignVersionID int64  `validate:"required,gt=0"`
	EditorID        string `validate:"required"`
}

func (PublishDesign) Name() string { return "design.publish" }
