package transform

import "math/rand/v2"

// Jitter returns 2n offsets in [0, bound), two per block: left edge then
// right edge. The result depends only on its arguments. A bound of zero or
// less yields all zeros.
func Jitter(seed uint64, n, bound int) []int {
	out := make([]int, 2*n)
	if bound <= 0 {
		return out
	}
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	for i := range out {
		out[i] = rng.IntN(bound)
	}
	return out
}
