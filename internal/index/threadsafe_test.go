package index

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// The same multiset of adds yields the same index regardless of interleaving
// or worker count.
func TestConcurrentAddsDeterministic(t *testing.T) {
	serial := New()
	for f := 0; f < 8; f++ {
		location := fmt.Sprintf("file-%d.txt", f)
		for p := 1; p <= 50; p++ {
			serial.Add(fmt.Sprintf("stem%d", p%7), location, p)
		}
	}

	safe := NewThreadSafe()
	var wg sync.WaitGroup
	for f := 0; f < 8; f++ {
		wg.Add(1)
		go func(f int) {
			defer wg.Done()
			location := fmt.Sprintf("file-%d.txt", f)
			for p := 1; p <= 50; p++ {
				safe.Add(fmt.Sprintf("stem%d", p%7), location, p)
			}
		}(f)
	}
	wg.Wait()

	if diff := cmp.Diff(serial.Stems(), safe.Stems()); diff != "" {
		t.Errorf("stems diverge:\n%s", diff)
	}
	for _, location := range serial.Locations() {
		if serial.CountOf(location) != safe.CountOf(location) {
			t.Errorf("counts diverge at %s", location)
		}
	}
	for _, stem := range serial.Stems() {
		for _, location := range serial.StemLocations(stem) {
			if diff := cmp.Diff(
				serial.StemPositionsIn(stem, location),
				safe.StemPositionsIn(stem, location),
			); diff != "" {
				t.Errorf("positions diverge at (%s, %s):\n%s", stem, location, diff)
			}
		}
	}
}

// Merges from many goroutines with concurrent readers must neither race nor
// lose data.
func TestConcurrentMergesAndReads(t *testing.T) {
	safe := NewThreadSafe()
	const merges = 32

	var wg sync.WaitGroup
	for i := 0; i < merges; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			local := New()
			location := fmt.Sprintf("doc-%d", i)
			for p := 1; p <= 20; p++ {
				local.Add("shared", location, p)
			}
			safe.AddAll(local)
		}(i)
	}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				safe.PartialSearch([]string{"sha"})
				safe.CountsSize()
				safe.Locations()
			}
		}()
	}
	wg.Wait()

	if got := safe.CountsSize(); got != merges {
		t.Errorf("locations after merges = %d, want %d", got, merges)
	}
	if got := safe.NumLocationsAtStem("shared"); got != merges {
		t.Errorf("postings after merges = %d, want %d", got, merges)
	}
	for i := 0; i < merges; i++ {
		location := fmt.Sprintf("doc-%d", i)
		if got := safe.CountOf(location); got != 20 {
			t.Errorf("CountOf(%s) = %d, want 20", location, got)
		}
	}
}

func TestThreadSafeSearch(t *testing.T) {
	safe := NewThreadSafe()
	safe.Add("red", "a.txt", 1)
	safe.Add("fish", "a.txt", 2)
	safe.Add("red", "a.txt", 3)
	safe.Add("fish", "a.txt", 4)

	results := safe.Search([]string{"fish", "red"}, false)
	want := []Result{{Location: "a.txt", Matches: 4, Words: 4, Score: 1.0}}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("search through decorator (-want +got):\n%s", diff)
	}
}
