package vm

import (
	"math"
	"math/rand"
	"sort"
)

// samplingResolution is the statistical grain of the sampler: every state
// appears in the draw pool round(prob * 65536) times, and draws are taken
// modulo the same constant. Probabilities below ~1/65536 vanish from the
// histogram. The constant must be preserved for cross-implementation
// parity.
const samplingResolution = 1 << 16

// sample converts an exact probability map into a multinomial sample of
// the requested number of shots.
func sample(probs map[uint64]float64, shots uint32, rng *rand.Rand) []Entry {
	if len(probs) == 0 || shots == 0 {
		return nil
	}

	// Expand each state proportionally to its probability. States are
	// visited in ascending order so the pool layout is deterministic
	// before the shuffle.
	states := make([]uint64, 0, samplingResolution)
	for _, state := range sortedKeys(probs) {
		repeats := int(math.Round(probs[state] * samplingResolution))
		for i := 0; i < repeats; i++ {
			states = append(states, state)
		}
	}
	if len(states) == 0 {
		return nil
	}

	rng.Shuffle(len(states), func(i, j int) {
		states[i], states[j] = states[j], states[i]
	})

	// The redraw bound is the sampling resolution, not len(states): draws
	// landing past the pool are rejected and retried. Wasteful when the
	// pool is short, but preserved for parity.
	counts := make(map[uint64]uint64)
	for i := uint32(0); i < shots; i++ {
		idx := int(rng.Uint32() % samplingResolution)
		for idx >= len(states) {
			idx = int(rng.Uint32() % samplingResolution)
		}
		counts[states[idx]]++
	}

	entries := make([]Entry, 0, len(counts))
	for _, value := range sortedKeys(counts) {
		entries = append(entries, Entry{Value: value, Count: counts[value]})
	}
	return entries
}

func sortedKeys[V any](m map[uint64]V) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
