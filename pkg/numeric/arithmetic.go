package numeric

// AddInt64 adds two signed 64-bit integers, returning false if the addition
// overflows.
func AddInt64(a, b int64) (int64, bool) {
	if (b > 0 && a > MaxInt64-b) || (b < 0 && a < MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

// AddSigned applies a signed delta to an unsigned 64-bit value. The base is
// first converted to a signed value (failing if it exceeds MaxInt64), then the
// delta is added with overflow checking, and finally the sum is converted back
// to an unsigned value (failing if it's negative). It returns false if any
// step fails.
func AddSigned(base uint64, delta int64) (uint64, bool) {
	if base > MaxInt64 {
		return 0, false
	}
	sum, ok := AddInt64(int64(base), delta)
	if !ok || sum < 0 {
		return 0, false
	}
	return uint64(sum), true
}
