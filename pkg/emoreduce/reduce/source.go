package reduce

import (
	"math/bits"

	"gonum.org/v1/gonum/mathext/prng"
)

// DefaultSeed is the seed the reduction has always been run with.
const DefaultSeed = 42

// Source is the random stream consumed by the reducer. Each call advances
// the stream, so call order determines the output.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
}

// PySource reproduces the draws of CPython's random module on top of a
// Mersenne Twister. A PySource seeded with s yields the same Float64 values
// as random.seed(s); random.random(), and Intn matches random.randrange.
type PySource struct {
	mt *prng.MT19937
}

// NewPySource returns a source seeded the way random.seed(seed) seeds an int.
func NewPySource(seed int64) *PySource {
	mt := prng.NewMT19937()
	mt.SeedFromKeys(seedKeys(seed))
	return &PySource{mt: mt}
}

// seedKeys splits |seed| into little-endian 32-bit words, dropping leading
// zero words. Zero seeds with a single zero key.
func seedKeys(seed int64) []uint32 {
	u := uint64(seed)
	if seed < 0 {
		u = uint64(-seed)
	}
	if u>>32 == 0 {
		return []uint32{uint32(u)}
	}
	return []uint32{uint32(u), uint32(u >> 32)}
}

// Float64 builds a 53-bit float from two 32-bit outputs (27 + 26 bits).
func (s *PySource) Float64() float64 {
	a := s.mt.Uint32() >> 5
	b := s.mt.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) * (1.0 / 9007199254740992.0)
}

// Intn rejection-samples getrandbits(bitlen(n)) until it falls below n.
// n may be at most 1<<31.
func (s *PySource) Intn(n int) int {
	if n <= 0 || uint64(n) > 1<<31 {
		panic("reduce: invalid argument to Intn")
	}
	limit := uint32(n - 1)
	k := bits.Len64(uint64(n))
	r := s.getrandbits(k)
	for r > limit {
		r = s.getrandbits(k)
	}
	return int(r)
}

func (s *PySource) getrandbits(k int) uint32 {
	return s.mt.Uint32() >> (32 - k)
}
