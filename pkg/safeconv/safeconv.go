// Package safeconv provides saturating integer conversions for sizes and
// file descriptors.
package safeconv

import "math"

// Uint64ToInt64 converts v, saturating at math.MaxInt64.
func Uint64ToInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(v)
}

// Int64ToUint64 converts v, mapping negative values to zero.
func Int64ToUint64(v int64) uint64 {
	if v < 0 {
		return 0
	}

	return uint64(v)
}

// FdToInt converts a file descriptor for APIs taking int, saturating at
// math.MaxInt.
func FdToInt(fd uintptr) int {
	if fd > math.MaxInt {
		return math.MaxInt
	}

	return int(fd)
}
