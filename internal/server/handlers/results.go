package handlers

import "github.com/pagesmith/pagesmith/internal/server/models"

// ResultStatus tags the expected outcomes of a command.
type ResultStatus string

const (
	StatusOK       ResultStatus = "ok"
	StatusInvalid  ResultStatus = "invalid"
	StatusNotFound ResultStatus = "not_found"
	StatusFailed   ResultStatus = "failed"
)

// FieldError describes one input validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SaveContentResult is the tagged outcome of a SaveContent command.
// Version and CdnResults are set only when Status is StatusOK;
// FieldErrors only when Status is StatusInvalid.
type SaveContentResult struct {
	Status           ResultStatus
	Version          *models.ContentVersion
	NewVersionNumber int
	CdnResults       []models.CdnResult
	FieldErrors      []FieldError
}

// PublishDesignResult is the tagged outcome of a PublishDesign command.
// Regenerated and Failed count dependent entries; a non-zero Failed with
// Status OK means the template itself published but some entries were
// skipped (isolated per-entry failures, see handler docs).
type PublishDesignResult struct {
	Status      ResultStatus
	TemplateID  int64
	Regenerated int
	Failed      int
	FieldErrors []FieldError
}
