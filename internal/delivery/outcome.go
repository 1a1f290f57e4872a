// Package delivery drives the retrieve, evaluate, deliver-or-fallback
// decision for one selected variant.
package delivery

import (
	"context"
	"errors"
)

// Outcome classifies how a pipeline run ended.
type Outcome string

const (
	// OutcomeDelivered: the artifact was transmitted; no direct link known.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeDeliveredWithFallback: transmitted, and a direct link exists
	// for the final confirmation.
	OutcomeDeliveredWithFallback Outcome = "delivered_with_fallback"
	// OutcomeFallbackOnly: the artifact exceeded the delivery ceiling; only
	// the direct link (when obtained) is surfaced.
	OutcomeFallbackOnly Outcome = "fallback_only"
	// OutcomeFailed: retrieval or transmission failed. Terminal; the user
	// recovers by resubmitting the URL.
	OutcomeFailed Outcome = "failed"
)

// Result is the pipeline verdict. Err is set only for OutcomeFailed.
type Result struct {
	Outcome   Outcome
	DirectURL string
	Err       error
}

// ErrTransmissionFailed indicates the chat surface rejected the artifact.
// The local artifact is still cleaned up.
var ErrTransmissionFailed = errors.New("transmission failed")

// Stage is a progress signal emitted to the user's display surface.
type Stage string

const (
	StageRetrieving Stage = "retrieving"
	StageDelivering Stage = "delivering"
)

// Surface is the slice of the chat platform the pipeline touches: editable
// status text and artifact upload.
type Surface interface {
	Status(ctx context.Context, stage Stage) error
	Transmit(ctx context.Context, path string) error
}
