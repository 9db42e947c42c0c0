// Package common defines shared constants and sentinel errors used across
// the layers of PageSmith. Callers should use errors.Is to match the
// sentinels and errors.As for typed errors.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")

	// Command dispatch errors.
	ErrHandlerNotFound = errors.New("no handler registered")
	ErrHandlerContract = errors.New("handler contract violation")
)

// BusinessRuleError carries a rule violation raised by a collaborator
// (e.g. a reserved-path collision). It is propagated verbatim to callers
// so that bad input can be told apart from internal failures.
type BusinessRuleError struct {
	Rule   string
	Detail string
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule %s violated: %s", e.Rule, e.Detail)
}

// IsBusinessRule reports whether err (or anything it wraps) is a
// BusinessRuleError.
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}
