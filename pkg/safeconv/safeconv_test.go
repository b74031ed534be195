package safeconv_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/codecortex/pkg/safeconv"
)

func TestUint64ToInt64(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(0), safeconv.Uint64ToInt64(0))
	assert.Equal(t, int64(5_000_000), safeconv.Uint64ToInt64(5_000_000))
	assert.Equal(t, int64(math.MaxInt64), safeconv.Uint64ToInt64(math.MaxInt64))
	assert.Equal(t, int64(math.MaxInt64), safeconv.Uint64ToInt64(math.MaxUint64))
}

func TestInt64ToUint64(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(0), safeconv.Int64ToUint64(-1))
	assert.Equal(t, uint64(0), safeconv.Int64ToUint64(math.MinInt64))
	assert.Equal(t, uint64(42), safeconv.Int64ToUint64(42))
}

func TestFdToInt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, safeconv.FdToInt(2))
	assert.Equal(t, math.MaxInt, safeconv.FdToInt(^uintptr(0)))
}
