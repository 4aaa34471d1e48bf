package random

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntnBounds(t *testing.T) {
	r := New()
	for i := 0; i < 1000; i++ {
		v := r.Intn(10)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 10)
	}

	require.Equal(t, 0, r.Intn(0))
	require.Equal(t, 0, r.Intn(1))
}

// A biased shuffle would let players predict where the correct answer
// lands among the choices. Track the final position of the last input
// element across many shuffles and check the distribution against
// uniform with a chi-squared statistic.
func TestShufflePositionalUniformity(t *testing.T) {
	const n = 5
	const trials = 20000

	r := New()
	var counts [n]int
	for trial := 0; trial < trials; trial++ {
		vals := [n]int{}
		for i := range vals {
			vals[i] = i
		}
		r.Shuffle(n, func(i, j int) {
			vals[i], vals[j] = vals[j], vals[i]
		})
		for pos, v := range vals {
			if v == n-1 {
				counts[pos]++
				break
			}
		}
	}

	expected := float64(trials) / n
	chi2 := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi2 += d * d / expected
	}

	// 99.99th percentile of chi-squared with 4 degrees of freedom is
	// 23.51; a fair shuffle stays far below it
	require.Lessf(t, chi2, 23.51, "positions skewed: %v", counts)
}
