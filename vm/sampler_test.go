package vm

import (
	"math/rand"
	"testing"
)

func TestSampleCountsSumToShots(t *testing.T) {
	probs := map[uint64]float64{0: 0.25, 1: 0.25, 2: 0.5}
	for _, shots := range []uint32{1, 17, 1000, 65536} {
		entries := sample(probs, shots, rand.New(rand.NewSource(7)))
		var total uint64
		seen := make(map[uint64]bool)
		for _, e := range entries {
			if seen[e.Value] {
				t.Errorf("shots=%d: duplicate value %d", shots, e.Value)
			}
			seen[e.Value] = true
			total += e.Count
		}
		if total != uint64(shots) {
			t.Errorf("shots=%d: counts sum to %d", shots, total)
		}
	}
}

func TestSampleSingleState(t *testing.T) {
	// A single state with probability ~1 must absorb every shot.
	probs := map[uint64]float64{5: 1.0}
	entries := sample(probs, 2048, rand.New(rand.NewSource(3)))
	if len(entries) != 1 {
		t.Fatalf("entries = %v, want one", entries)
	}
	if entries[0].Value != 5 || entries[0].Count != 2048 {
		t.Errorf("entry = %+v, want {5 2048}", entries[0])
	}
}

func TestSampleEmptyDistribution(t *testing.T) {
	if entries := sample(nil, 100, rand.New(rand.NewSource(1))); entries != nil {
		t.Errorf("entries = %v, want nil", entries)
	}
	if entries := sample(map[uint64]float64{}, 100, rand.New(rand.NewSource(1))); entries != nil {
		t.Errorf("entries = %v, want nil", entries)
	}
}

func TestSampleZeroShots(t *testing.T) {
	probs := map[uint64]float64{0: 1.0}
	if entries := sample(probs, 0, rand.New(rand.NewSource(1))); entries != nil {
		t.Errorf("entries = %v, want nil", entries)
	}
}

func TestSampleVanishinglySmallProbabilities(t *testing.T) {
	// States below the sampling resolution round to zero repeats. A
	// distribution made only of such states yields an empty pool and an
	// empty report rather than a hung redraw loop.
	probs := map[uint64]float64{1: 1e-9, 2: 2e-9}
	if entries := sample(probs, 10, rand.New(rand.NewSource(1))); entries != nil {
		t.Errorf("entries = %v, want nil", entries)
	}
}

func TestSampleShortPool(t *testing.T) {
	// Probabilities summing well under 1 leave the pool far shorter than
	// the redraw bound; the sampler must still terminate and respect the
	// shot total.
	probs := map[uint64]float64{3: 0.01}
	entries := sample(probs, 100, rand.New(rand.NewSource(9)))
	if len(entries) != 1 || entries[0].Value != 3 || entries[0].Count != 100 {
		t.Errorf("entries = %v, want [{3 100}]", entries)
	}
}

func TestSampleProportions(t *testing.T) {
	// A 3:1 split should be roughly visible at 10k shots.
	probs := map[uint64]float64{0: 0.75, 7: 0.25}
	entries := sample(probs, 10000, rand.New(rand.NewSource(11)))
	counts := make(map[uint64]uint64)
	for _, e := range entries {
		counts[e.Value] = e.Count
	}
	if counts[0] < 7000 || counts[0] > 8000 {
		t.Errorf("count[0] = %d, want ~7500", counts[0])
	}
	if counts[7] < 2000 || counts[7] > 3000 {
		t.Errorf("count[7] = %d, want ~2500", counts[7])
	}
}

func TestSampleEntriesSorted(t *testing.T) {
	probs := map[uint64]float64{9: 0.4, 2: 0.3, 4: 0.3}
	entries := sample(probs, 5000, rand.New(rand.NewSource(2)))
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Value >= entries[i].Value {
			t.Errorf("entries not sorted by value: %v", entries)
		}
	}
}
