package args

import "testing"

func TestFlagValuePairs(t *testing.T) {
	p := New([]string{"-text", "corpus", "-partial", "-threads", "3"})

	if !p.HasFlag("-text") || !p.HasFlag("-partial") || !p.HasFlag("-threads") {
		t.Error("flags missing")
	}
	if p.HasFlag("-query") {
		t.Error("phantom flag present")
	}
	if got := p.String("-text", ""); got != "corpus" {
		t.Errorf("-text = %q", got)
	}
	if got := p.Int("-threads", 5); got != 3 {
		t.Errorf("-threads = %d", got)
	}
	if got := p.Size(); got != 3 {
		t.Errorf("Size = %d, want 3", got)
	}
}

func TestValuelessFlagFallsBack(t *testing.T) {
	p := New([]string{"-counts", "-index", "out.json"})

	if got := p.String("-counts", "counts.json"); got != "counts.json" {
		t.Errorf("-counts default = %q", got)
	}
	if got := p.String("-index", "index.json"); got != "out.json" {
		t.Errorf("-index = %q", got)
	}
}

func TestNegativeNumberIsValue(t *testing.T) {
	p := New([]string{"-threads", "-1"})
	if got := p.Int("-threads", 5); got != -1 {
		t.Errorf("-threads = %d, want -1", got)
	}
}

func TestUnparsableIntFallsBack(t *testing.T) {
	p := New([]string{"-crawl", "lots"})
	if got := p.Int("-crawl", 1); got != 1 {
		t.Errorf("-crawl = %d, want fallback 1", got)
	}
}

func TestRepeatedFlagKeepsLast(t *testing.T) {
	p := New([]string{"-text", "first", "-text", "second"})
	if got := p.String("-text", ""); got != "second" {
		t.Errorf("-text = %q, want second", got)
	}
}
