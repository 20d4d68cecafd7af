package sharedfile

import (
	"github.com/pkg/errors"

	"github.com/mutagen-io/sharedfile/pkg/numeric"
)

// applyDelta applies a signed delta to a base position. It fails with an error
// wrapping ErrInvalidOffset if the base isn't representable as a signed 64-bit
// value, if the addition overflows, or if the result is negative.
func applyDelta(base uint64, delta int64, origin string) (uint64, error) {
	result, ok := numeric.AddSigned(base, delta)
	if !ok {
		return 0, errors.Wrapf(ErrInvalidOffset,
			"seek overflow applying %d to %s position %d", delta, origin, base,
		)
	}
	return result, nil
}
