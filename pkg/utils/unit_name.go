package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUnitName creates a short, human-readable unit name.
// Format: {operation}-{role}-{8charHexUUID}
//
// Example:
//   - Input: namespace="alpha.upgrade", role="upgrader"
//   - Output: "alpha-upgrader-a3f8e2b1"
//
// Only the operation part of the namespace is kept; the role already says
// which mission the unit serves.
func GenerateUnitName(namespace, role string) string {
	return operationOf(namespace) + "-" + role + "-" + generateShortUUID()
}

// GenerateRunID creates an identifier for one scheduler run.
// Format: {label}-{8charHexUUID}
func GenerateRunID(label string) string {
	return label + "-" + generateShortUUID()
}

// operationOf returns the part of a "op.mission" namespace before the first dot
//   - "alpha.upgrade" -> "alpha"
//   - "alpha" -> "alpha"
func operationOf(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[:idx]
	}
	return namespace
}

// generateShortUUID creates an 8-character hex string from a UUID.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
