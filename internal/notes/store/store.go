// Package store provides Note persistence. Implementations report facts via
// pkg/platform/sentinel errors; the service layer translates them into domain
// errors.
package store

import "noteboard/pkg/platform/sentinel"

// ErrNotFound keeps store-specific 404s consistent across the in-memory and
// PostgreSQL implementations.
var ErrNotFound = sentinel.ErrNotFound
