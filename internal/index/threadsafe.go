package index

import (
	"io"

	"github.com/mitch-ross/search-engine/pkg/rwlock"
)

// ThreadSafeIndex wraps every InvertedIndex operation in the matching handle
// of a MultiReader lock: mutators take the writer handle, observers and
// searches the reader handle. Serialisation holds the reader handle for the
// whole write so consumers see one consistent snapshot.
type ThreadSafeIndex struct {
	inner *InvertedIndex
	lock  *rwlock.MultiReader
}

// NewThreadSafe returns an empty thread-safe index.
func NewThreadSafe() *ThreadSafeIndex {
	return &ThreadSafeIndex{
		inner: New(),
		lock:  rwlock.New(),
	}
}

func (s *ThreadSafeIndex) Add(stem, location string, position int) bool {
	w := s.lock.Write()
	w.Lock()
	defer w.Unlock()
	return s.inner.Add(stem, location, position)
}

// AddAll merges a local index built by one task. Atomic with respect to
// readers: they observe either the pre-merge or post-merge state.
func (s *ThreadSafeIndex) AddAll(other *InvertedIndex) {
	w := s.lock.Write()
	w.Lock()
	defer w.Unlock()
	s.inner.AddAll(other)
}

func (s *ThreadSafeIndex) HasStem(stem string) bool {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.HasStem(stem)
}

func (s *ThreadSafeIndex) HasLocation(location string) bool {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.HasLocation(location)
}

func (s *ThreadSafeIndex) StemHasLocation(stem, location string) bool {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.StemHasLocation(stem, location)
}

func (s *ThreadSafeIndex) StemAtPosition(stem, location string, position int) bool {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.StemAtPosition(stem, location, position)
}

func (s *ThreadSafeIndex) CountOf(location string) int {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.CountOf(location)
}

func (s *ThreadSafeIndex) CountsSize() int {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.CountsSize()
}

func (s *ThreadSafeIndex) IndexSize() int {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.IndexSize()
}

func (s *ThreadSafeIndex) NumLocationsAtStem(stem string) int {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.NumLocationsAtStem(stem)
}

func (s *ThreadSafeIndex) NumStemAtLocation(stem, location string) int {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.NumStemAtLocation(stem, location)
}

func (s *ThreadSafeIndex) NumPositionsAtLocationForStem(stem, location string) int {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.NumPositionsAtLocationForStem(stem, location)
}

func (s *ThreadSafeIndex) Locations() []string {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.Locations()
}

func (s *ThreadSafeIndex) Stems() []string {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.Stems()
}

func (s *ThreadSafeIndex) StemLocations(stem string) []string {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.StemLocations(stem)
}

func (s *ThreadSafeIndex) StemPositionsIn(stem, location string) []int {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.StemPositionsIn(stem, location)
}

func (s *ThreadSafeIndex) Search(query []string, partial bool) []Result {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.Search(query, partial)
}

func (s *ThreadSafeIndex) ExactSearch(query []string) []Result {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.ExactSearch(query)
}

func (s *ThreadSafeIndex) PartialSearch(query []string) []Result {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.PartialSearch(query)
}

func (s *ThreadSafeIndex) WriteCounts(w io.Writer) error {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.WriteCounts(w)
}

func (s *ThreadSafeIndex) WriteIndex(w io.Writer) error {
	r := s.lock.Read()
	r.Lock()
	defer r.Unlock()
	return s.inner.WriteIndex(w)
}
