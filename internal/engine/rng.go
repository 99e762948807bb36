package engine

// RNG is a deterministic pseudo-random number generator (xorshift64).
// Its whole state is one word, so it round-trips through a state stream.
type RNG struct {
	state uint64
}

const defaultSeed = 88172645463325252

// NewRNG creates a new RNG with the given seed.
func NewRNG(seed uint64) *RNG {
	r := &RNG{}
	r.Seed(seed)
	return r
}

// Seed resets the generator. A zero seed is replaced by a fixed non-zero one.
func (r *RNG) Seed(seed uint64) {
	if seed == 0 {
		seed = defaultSeed
	}
	r.state = seed
}

// Next returns the next random uint64.
func (r *RNG) Next() uint64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

// Float returns a random float64 in [0, 1).
func (r *RNG) Float() float64 {
	return float64(r.Next()>>11) / float64(1<<53)
}

// Intn returns a random int in [0, n).
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n)) //#nosec G115 -- n is positive
}

// Bool returns a fair coin flip.
func (r *RNG) Bool() bool {
	return r.Next()&1 == 1
}

// State returns the raw generator state.
func (r *RNG) State() uint64 {
	return r.state
}

// SetState restores a state previously returned by State.
func (r *RNG) SetState(s uint64) {
	r.Seed(s)
}
