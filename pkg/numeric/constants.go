package numeric

const (
	// MaxUint64 is the maximum value that can be stored in a 64-bit unsigned
	// integer. We define these limits here to avoid a dependency on the (rather
	// large) math package, but we test to ensure they're equivalent to that
	// package's definitions.
	MaxUint64 = 1<<64 - 1
	// MaxInt64 is the maximum value that can be stored in a 64-bit signed
	// integer.
	MaxInt64 = 1<<63 - 1
	// MinInt64 is the minimum value that can be stored in a 64-bit signed
	// integer.
	MinInt64 = -1 << 63
	// MaxInt is the maximum value that can be stored in an int on the current
	// platform.
	MaxInt = int(^uint(0) >> 1)
)
