package parallel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForVisitsEveryIndexOnce(t *testing.T) {
	for _, n := range []int{0, 1, 7, 1000} {
		hits := make([]int, n)
		require.NoError(t, For(n, func(i int) error {
			hits[i]++
			return nil
		}))
		for i, h := range hits {
			assert.Equal(t, 1, h, "n=%d index %d", n, i)
		}
	}
}

func TestForReturnsLowestIndexError(t *testing.T) {
	errBoom := errors.New("boom")
	err := For(500, func(i int) error {
		if i%97 == 3 {
			return fmt.Errorf("index %d: %w", i, errBoom)
		}
		return nil
	})
	require.ErrorIs(t, err, errBoom)
	assert.EqualError(t, err, "index 3: boom")
}
