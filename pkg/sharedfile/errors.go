package sharedfile

import (
	"github.com/pkg/errors"
)

// ErrInvalidOffset indicates that a seek operation would have produced a
// position that can't be represented as a non-negative 64-bit offset. It is
// always returned wrapped with a description of the failed computation, so
// callers should test for it using errors.Is.
var ErrInvalidOffset = errors.New("invalid seek offset")
