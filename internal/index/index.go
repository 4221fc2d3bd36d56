// Package index holds the inverted index data model: a sorted mapping from
// stem to location to ascending position set, alongside per-location word
// counts, with ranked exact and prefix search over it.
package index

import (
	"io"
	"sort"
	"strings"

	"github.com/mitch-ross/search-engine/pkg/jsonw"
)

// InvertedIndex maps stem → location → ascending unique positions, and
// location → total stems seen there. The stem key slice is kept sorted so
// prefix scans run in O(log n + k). Not safe for concurrent use; see
// ThreadSafeIndex.
type InvertedIndex struct {
	postings map[string]map[string][]int
	stems    []string
	counts   map[string]int
}

// New returns an empty index.
func New() *InvertedIndex {
	return &InvertedIndex{
		postings: make(map[string]map[string][]int),
		counts:   make(map[string]int),
	}
}

// Add records one occurrence of stem at location/position. It reports
// whether the position set was modified; replayed duplicates leave both the
// postings and the count untouched.
func (inv *InvertedIndex) Add(stem, location string, position int) bool {
	locations, ok := inv.postings[stem]
	if !ok {
		locations = make(map[string][]int)
		inv.postings[stem] = locations
		inv.insertStem(stem)
	}

	positions := locations[location]
	i := sort.SearchInts(positions, position)
	if i < len(positions) && positions[i] == position {
		return false
	}
	positions = append(positions, 0)
	copy(positions[i+1:], positions[i:])
	positions[i] = position
	locations[location] = positions

	inv.counts[location]++
	return true
}

// AddAll merges other into inv. Absent stems and locations are transplanted
// wholesale; overlapping position sets are unioned. Counts are summed, not
// recomputed, so the two indexes must not have counted the same occurrence
// twice — the build pipeline guarantees this by giving every input its own
// local index. other must not be used afterwards.
func (inv *InvertedIndex) AddAll(other *InvertedIndex) {
	for _, stem := range other.stems {
		theirs := other.postings[stem]
		ours, ok := inv.postings[stem]
		if !ok {
			inv.postings[stem] = theirs
			inv.insertStem(stem)
			continue
		}
		for location, positions := range theirs {
			existing, ok := ours[location]
			if !ok {
				ours[location] = positions
				continue
			}
			ours[location] = unionPositions(existing, positions)
		}
	}

	for location, count := range other.counts {
		inv.counts[location] += count
	}
}

// HasStem reports whether the stem appears anywhere in the index.
func (inv *InvertedIndex) HasStem(stem string) bool {
	_, ok := inv.postings[stem]
	return ok
}

// HasLocation reports whether any stem has been added at the location.
func (inv *InvertedIndex) HasLocation(location string) bool {
	_, ok := inv.counts[location]
	return ok
}

// StemHasLocation reports whether the stem occurs at the location.
func (inv *InvertedIndex) StemHasLocation(stem, location string) bool {
	_, ok := inv.postings[stem][location]
	return ok
}

// StemAtPosition reports whether the stem occurs at the exact position in
// the location.
func (inv *InvertedIndex) StemAtPosition(stem, location string, position int) bool {
	positions := inv.postings[stem][location]
	i := sort.SearchInts(positions, position)
	return i < len(positions) && positions[i] == position
}

// CountOf returns the word count of the location, zero if unknown.
func (inv *InvertedIndex) CountOf(location string) int {
	return inv.counts[location]
}

// CountsSize returns the number of locations in the index.
func (inv *InvertedIndex) CountsSize() int {
	return len(inv.counts)
}

// IndexSize returns the number of distinct stems.
func (inv *InvertedIndex) IndexSize() int {
	return len(inv.postings)
}

// NumLocationsAtStem returns how many locations the stem occurs in.
func (inv *InvertedIndex) NumLocationsAtStem(stem string) int {
	return len(inv.postings[stem])
}

// NumStemAtLocation returns how many times the stem occurs at the location.
func (inv *InvertedIndex) NumStemAtLocation(stem, location string) int {
	return len(inv.postings[stem][location])
}

// NumPositionsAtLocationForStem returns the size of the (stem, location)
// position set.
func (inv *InvertedIndex) NumPositionsAtLocationForStem(stem, location string) int {
	return len(inv.postings[stem][location])
}

// Locations returns every known location in ascending case-insensitive
// order.
func (inv *InvertedIndex) Locations() []string {
	locations := make([]string, 0, len(inv.counts))
	for location := range inv.counts {
		locations = append(locations, location)
	}
	sortLocations(locations)
	return locations
}

// Stems returns every stem in ascending order.
func (inv *InvertedIndex) Stems() []string {
	stems := make([]string, len(inv.stems))
	copy(stems, inv.stems)
	return stems
}

// StemLocations returns the locations a stem occurs in, ascending
// case-insensitively. Unknown stems yield an empty slice.
func (inv *InvertedIndex) StemLocations(stem string) []string {
	entry := inv.postings[stem]
	locations := make([]string, 0, len(entry))
	for location := range entry {
		locations = append(locations, location)
	}
	sortLocations(locations)
	return locations
}

// StemPositionsIn returns a copy of the ascending position set of the stem
// at the location. Unknown pairs yield an empty slice.
func (inv *InvertedIndex) StemPositionsIn(stem, location string) []int {
	positions := inv.postings[stem][location]
	out := make([]int, len(positions))
	copy(out, positions)
	return out
}

// Search runs an exact or partial search over the query stem set.
func (inv *InvertedIndex) Search(query []string, partial bool) []Result {
	if partial {
		return inv.PartialSearch(query)
	}
	return inv.ExactSearch(query)
}

// ExactSearch accumulates one ranked result per location containing any of
// the query stems, matched literally.
func (inv *InvertedIndex) ExactSearch(query []string) []Result {
	acc := newAccumulator()
	for _, stem := range query {
		if inv.HasStem(stem) {
			inv.accumulateStem(stem, acc)
		}
	}
	return acc.ranked(inv.counts)
}

// PartialSearch accumulates results for every indexed stem that any query
// stem is a prefix of, walking the sorted stem keys forward from each query
// stem until the prefix no longer matches.
func (inv *InvertedIndex) PartialSearch(query []string) []Result {
	acc := newAccumulator()
	for _, stem := range query {
		start := sort.SearchStrings(inv.stems, stem)
		for i := start; i < len(inv.stems); i++ {
			if !strings.HasPrefix(inv.stems[i], stem) {
				break
			}
			inv.accumulateStem(inv.stems[i], acc)
		}
	}
	return acc.ranked(inv.counts)
}

// accumulateStem folds every posting of one indexed stem into the
// per-location accumulator.
func (inv *InvertedIndex) accumulateStem(stem string, acc *accumulator) {
	for location, positions := range inv.postings[stem] {
		acc.add(location, len(positions))
	}
}

// WriteCounts serialises the counts map as pretty JSON.
func (inv *InvertedIndex) WriteCounts(w io.Writer) error {
	locations := inv.Locations()
	counts := make([]jsonw.Count, len(locations))
	for i, location := range locations {
		counts[i] = jsonw.Count{Location: location, Total: inv.counts[location]}
	}
	return jsonw.WriteCounts(w, counts)
}

// WriteIndex serialises the full inverted index as pretty JSON.
func (inv *InvertedIndex) WriteIndex(w io.Writer) error {
	stems := make([]jsonw.Stem, len(inv.stems))
	for i, stem := range inv.stems {
		locations := inv.StemLocations(stem)
		entry := jsonw.Stem{Stem: stem, Postings: make([]jsonw.Posting, len(locations))}
		for j, location := range locations {
			entry.Postings[j] = jsonw.Posting{
				Location:  location,
				Positions: inv.postings[stem][location],
			}
		}
		stems[i] = entry
	}
	return jsonw.WriteIndex(w, stems)
}

// insertStem keeps the stem key slice sorted as new stems arrive.
func (inv *InvertedIndex) insertStem(stem string) {
	i := sort.SearchStrings(inv.stems, stem)
	inv.stems = append(inv.stems, "")
	copy(inv.stems[i+1:], inv.stems[i:])
	inv.stems[i] = stem
}

// unionPositions merges two ascending unique position slices.
func unionPositions(a, b []int) []int {
	merged := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			merged = append(merged, a[i])
			i++
		case a[i] > b[j]:
			merged = append(merged, b[j])
			j++
		default:
			merged = append(merged, a[i])
			i++
			j++
		}
	}
	merged = append(merged, a[i:]...)
	merged = append(merged, b[j:]...)
	return merged
}
