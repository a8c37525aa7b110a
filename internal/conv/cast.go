package conv

import (
	"fmt"
	"math"
)

// Uint64ToInt converts v to int, failing when it does not fit.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}

// IntToUint64 converts v to uint64, failing when it is negative.
func IntToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint64 (negative)", v)
	}
	return uint64(v), nil
}

// AddInt returns a+b for non-negative operands, failing on overflow.
func AddInt(a, b int) (int, error) {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}
