// Package common defines shared constants and sentinel errors used across
// the aurago client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Transport / gateway errors.
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrInvalidAssetIdentity = errors.New("either id or local_identifier is required")

	// Upload saga errors. Each one marks a distinct, caller-visible
	// failure mode of the publish sequence.
	ErrRejectedByServer      = errors.New("selection rejected by server")
	ErrDeviceAckTimeout      = errors.New("device did not acknowledge in time")
	ErrContentIntegrity      = errors.New("uploaded content checksum mismatch")
	ErrReconciliationMismatch = errors.New("local identifier missing from batch update successes")
)
