// Package build populates an inverted index from a file or a directory tree
// of plain-text files, serially or across a work queue.
package build

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitch-ross/search-engine/internal/index"
	"github.com/mitch-ross/search-engine/internal/text"
)

// IsTextFile reports whether the file name carries a .txt or .text suffix,
// case-insensitively.
func IsTextFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".txt") || strings.HasSuffix(lower, ".text")
}

// Build indexes the file or directory at path into idx on the calling
// goroutine.
func Build(path string, idx *index.InvertedIndex) error {
	return walk(path, func(file string) error {
		return IndexFile(file, idx)
	})
}

// IndexFile tokenises one file into idx. Positions run 1, 2, 3, … across the
// whole file, incremented only for non-empty stems; the location is the path
// exactly as traversed.
func IndexFile(path string, idx *index.InvertedIndex) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	position := 1
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		for _, stem := range text.Stems(scanner.Text()) {
			idx.Add(stem, path, position)
			position++
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// walk applies process to path if it is a file, whatever its suffix, or to
// every matching file under it if it is a directory.
func walk(path string, process func(string) error) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return process(path)
	}
	return filepath.WalkDir(path, func(entry string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsTextFile(entry) {
			return nil
		}
		return process(entry)
	})
}
