// Package errs collects the sentinel errors shared across the mpctensor
// packages, so callers can use errors.Is against a stable value instead of
// matching on message text.
package errs

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Shape / scale mismatches.
var (
	ErrShapeMismatch = errors.New("mpctensor: shapes do not match")
	ErrScaleMismatch = errors.New("mpctensor: encoder scales do not match")
	ErrRankMismatch  = errors.New("mpctensor: unexpected party rank")
)

// Protocol preconditions.
var (
	ErrSourceOutOfRange  = errors.New("mpctensor: source party index out of range")
	ErrMissingPlaintext  = errors.New("mpctensor: source party must supply plaintext")
	ErrMissingSize       = errors.New("mpctensor: size must be specified unless broadcast_size is set")
	ErrStreamNotSeeded   = errors.New("mpctensor: stream generator has not been seeded")
	ErrWorldTooSmall     = errors.New("mpctensor: world size must be at least 2")
	ErrCollectiveAborted = errors.New("mpctensor: collective operation aborted")
)

// Configuration.
var (
	ErrUnknownReciprocalMethod   = errors.New("mpctensor: unrecognized reciprocal method")
	ErrUnknownSigmoidMethod      = errors.New("mpctensor: unrecognized sigmoid/tanh method")
	ErrChebyshevTerms            = errors.New("mpctensor: chebyshev terms must be even and >= 6")
	ErrMissingComparisonProvider = errors.New("mpctensor: a compare.Provider is required unless reciprocal_all_pos is set")
)

// Unsupported operations.
var (
	ErrBoolEval          = errors.New("mpctensor: cannot evaluate a shared tensor as a boolean")
	ErrPadMode           = errors.New("mpctensor: only constant padding is supported")
	ErrAvgPoolCeilMode   = errors.New("mpctensor: ceil_mode is not supported for avg_pool2d")
	ErrUnsupportedOperand = errors.New("mpctensor: operand must be a scalar, plaintext tensor, or shared tensor")
	ErrScaleOneFloat     = errors.New("mpctensor: cannot encode a non-integer value at scale 1")
	ErrPrivatePadNotScalar = errors.New("mpctensor: private padding value must be 0-dimensional")
)

// Numerical (debug mode only).
var ErrDivergence = errors.New("mpctensor: division result diverged from plaintext beyond tolerance")

// Wrap annotates err with msg while preserving errors.Is/As against the
// sentinels above, so a caller several layers up an interactive op can
// still tell an aborted collective from a shape mismatch.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return pkgerrors.Wrap(err, msg)
}
