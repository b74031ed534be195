package quality

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/zeebo/blake3"

	"github.com/Sumatoshi-tech/codecortex/pkg/levenshtein"
)

// Block is a window of consecutive lines.
type Block struct {
	StartLine int    `json:"startLine" yaml:"startLine"`
	EndLine   int    `json:"endLine"   yaml:"endLine"`
	Content   string `json:"content"   yaml:"content"`
}

// Match is a pair of similar blocks.
type Match struct {
	Similarity   float64 `json:"similarity"   yaml:"similarity"`
	ChangedLines int     `json:"changedLines" yaml:"changedLines"`
	Block1       Block   `json:"block1"       yaml:"block1"`
	Block2       Block   `json:"block2"       yaml:"block2"`
}

// Duplicate lists the similar blocks shared by two files. File1 equals
// File2 for duplicates inside a single file.
type Duplicate struct {
	File1        string  `json:"file1"        yaml:"file1"`
	File2        string  `json:"file2"        yaml:"file2"`
	Similarities []Match `json:"similarities" yaml:"similarities"`
}

// Involves reports whether file is one side of the pair.
func (d Duplicate) Involves(file string) bool {
	return d.File1 == file || d.File2 == file
}

// Best returns the first recorded similarity, or 0.
func (d Duplicate) Best() float64 {
	if len(d.Similarities) == 0 {
		return 0
	}

	return d.Similarities[0].Similarity
}

// DuplicatesForFile keeps the pairs that involve file.
func DuplicatesForFile(dups []Duplicate, file string) []Duplicate {
	var out []Duplicate

	for _, d := range dups {
		if d.Involves(file) {
			out = append(out, d)
		}
	}

	return out
}

// window is a precomputed block with its hash and rune length.
type window struct {
	block Block
	sum   [32]byte
	runes int
}

// matcher compares line windows of a fixed size.
type matcher struct {
	size      int
	threshold float64
	lev       levenshtein.Context
	dmp       *diffmatchpatch.DiffMatchPatch
}

func newMatcher(size int, threshold float64) *matcher {
	return &matcher{size: size, threshold: threshold, dmp: diffmatchpatch.New()}
}

// windows slices content into every block of m.size lines starting at
// i < len(lines) - size.
func (m *matcher) windows(content string) []window {
	lines := strings.Split(content, "\n")

	n := len(lines) - m.size
	if n <= 0 {
		return nil
	}

	out := make([]window, n)
	for i := range n {
		text := strings.Join(lines[i:i+m.size], "\n")
		out[i] = window{
			block: Block{StartLine: i + 1, EndLine: i + m.size, Content: text},
			sum:   blake3.Sum256([]byte(text)),
			runes: utf8.RuneCountInString(text),
		}
	}

	return out
}

// compare returns the similarity of two windows and whether it reaches the
// threshold. Identical hashes skip the edit distance; a length ratio below
// the threshold cannot be rescued by any alignment.
func (m *matcher) compare(a, b *window) (float64, bool) {
	if a.sum == b.sum {
		return 1.0, true
	}

	longer, shorter := max(a.runes, b.runes), min(a.runes, b.runes)
	if longer == 0 {
		return 1.0, true
	}

	if float64(shorter)/float64(longer) < m.threshold {
		return 0, false
	}

	sim := float64(longer-m.lev.Distance(a.block.Content, b.block.Content)) / float64(longer)

	return sim, sim >= m.threshold
}

// changedLines counts lines that differ between two blocks.
func (m *matcher) changedLines(a, b string) int {
	src, dst, _ := m.dmp.DiffLinesToRunes(a, b)

	var inserted, deleted int

	for _, d := range m.dmp.DiffMainRunes(src, dst, false) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += utf8.RuneCountInString(d.Text)
		case diffmatchpatch.DiffDelete:
			deleted += utf8.RuneCountInString(d.Text)
		case diffmatchpatch.DiffEqual:
		}
	}

	return max(inserted, deleted)
}

func (m *matcher) record(a, b *window, sim float64) Match {
	return Match{
		Similarity:   sim,
		ChangedLines: m.changedLines(a.block.Content, b.block.Content),
		Block1:       a.block,
		Block2:       b.block,
	}
}

// between compares every window of one file against every window of another.
func (m *matcher) between(w1, w2 []window) []Match {
	var out []Match

	for i := range w1 {
		for j := range w2 {
			if sim, ok := m.compare(&w1[i], &w2[j]); ok {
				out = append(out, m.record(&w1[i], &w2[j], sim))
			}
		}
	}

	return out
}

// within compares non-overlapping windows of a single file.
func (m *matcher) within(w []window) []Match {
	var out []Match

	for i := range w {
		for j := i + m.size; j < len(w); j++ {
			if sim, ok := m.compare(&w[i], &w[j]); ok {
				out = append(out, m.record(&w[i], &w[j], sim))
			}
		}
	}

	return out
}

// pairwise reports every file pair with at least one similar block.
func (m *matcher) pairwise(c *corpus) []Duplicate {
	wins := make([][]window, len(c.files))
	for i, f := range c.files {
		wins[i] = m.windows(f.content)
	}

	var out []Duplicate

	for i := range c.files {
		for j := i + 1; j < len(c.files); j++ {
			sims := m.between(wins[i], wins[j])
			if len(sims) > 0 {
				out = append(out, Duplicate{File1: c.files[i].path, File2: c.files[j].path, Similarities: sims})
			}
		}
	}

	return out
}
