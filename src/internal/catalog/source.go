// Package catalog lists the Bun versions published upstream.
//
// Sources are tried in order, each under its own timeout. The first source
// that answers with a non-empty list of valid versions wins.
package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Source is one way of listing published versions
type Source interface {
	// Name identifies the source in logs and errors
	Name() string

	// Versions returns raw version strings as published by the source
	Versions(ctx context.Context) ([]string, error)
}

// ErrSchema is returned when a source answers with a document of the wrong shape
type ErrSchema struct {
	Source string
	Reason string
}

func (e *ErrSchema) Error() string {
	return fmt.Sprintf("unexpected response from %s: %s", e.Source, e.Reason)
}

// IsSchemaError checks if an error indicates a malformed source response
func IsSchemaError(err error) bool {
	var target *ErrSchema
	return errors.As(err, &target)
}

// ErrEmpty is returned when a source answers but lists no usable versions
var ErrEmpty = errors.New("no valid versions listed")
