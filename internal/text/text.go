// Package text normalises raw text into the stems the index stores. Cleaning
// decomposes to NFD, drops combining marks, keeps only letters and spaces,
// and lower-cases; stemming uses the Snowball English stemmer.
package text

import (
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Clean folds accents away and removes everything that is not a letter or
// whitespace, lower-casing what remains.
func Clean(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Parse cleans a line and splits it into words on whitespace.
func Parse(line string) []string {
	return strings.Fields(Clean(line))
}

// Stem reduces a cleaned word to its Snowball English stem.
func Stem(word string) string {
	if word == "" {
		return ""
	}
	return english.Stem(word, true)
}

// Stems parses and stems a line, dropping empty stems. Duplicates are kept
// and order is preserved; this is the token stream positions are assigned
// from.
func Stems(line string) []string {
	words := Parse(line)
	stems := words[:0]
	for _, w := range words {
		if s := Stem(w); s != "" {
			stems = append(stems, s)
		}
	}
	return stems
}

// UniqueStems parses and stems a line into a sorted set of distinct stems.
func UniqueStems(line string) []string {
	set := make(map[string]struct{})
	for _, s := range Stems(line) {
		set[s] = struct{}{}
	}
	unique := make([]string, 0, len(set))
	for s := range set {
		unique = append(unique, s)
	}
	sort.Strings(unique)
	return unique
}

// CanonicalQuery reduces a raw query line to its canonical form: the distinct
// stems joined by single spaces in ascending order. The empty string means
// the line held no stems.
func CanonicalQuery(line string) string {
	return strings.Join(UniqueStems(line), " ")
}
