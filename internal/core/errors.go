package core

import "errors"

var (
	// ErrNotConfigured marks a collaborator whose credentials are missing.
	ErrNotConfigured = errors.New("service not configured")

	// ErrObjectNotFound is returned by object storage for missing keys.
	ErrObjectNotFound = errors.New("object not found")
)
