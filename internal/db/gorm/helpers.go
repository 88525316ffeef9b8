// Package gorm provides GORM-based database operations for collate.
package gorm

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrVersionConflict is returned when an optimistic-concurrency update
// targets a version that is no longer current.
var ErrVersionConflict = errors.New("version conflict")

// normalizeLimit clamps a caller-supplied limit to a sane positive value.
// This is shared between stores to avoid duplication.
func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
