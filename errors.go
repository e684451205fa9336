package keepalive

import "golang.org/x/xerrors"

// Sentinel errors for the tracker's programming-error surface. None of these
// are recoverable by the tracker itself: on any of them the call leaves the
// histogram, carrier table, and registry unchanged, and the caller is
// expected to treat it as a bug, not a retryable condition.
var (
	// ErrWrongDispatcher is returned when a Tracker method is invoked from a
	// goroutine other than the one that constructed it.
	ErrWrongDispatcher = xerrors.New("keepalive: called off the tracker's dispatcher goroutine")

	// ErrSlotInUse is returned by OnStartKeepalive when (network, slot) names
	// a still-live registration.
	ErrSlotInUse = xerrors.New("keepalive: slot already in use for this network")

	// ErrUnknownRegistration is returned by OnPauseKeepalive, OnResumeKeepalive,
	// and OnStopKeepalive when (network, slot) has no live registration.
	ErrUnknownRegistration = xerrors.New("keepalive: no live registration for this (network, slot)")

	// ErrIllegalTransition is returned by OnPauseKeepalive on an already-paused
	// registration, or OnResumeKeepalive on one that is not paused.
	ErrIllegalTransition = xerrors.New("keepalive: illegal pause/resume transition")
)
