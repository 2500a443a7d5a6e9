// Package quadgram scores text for English-likeness from four-letter
// sequence frequencies.
package quadgram

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/quadbreak/internal/cipher"
)

// #region types

// Size is the number of distinct four-letter sequences over the alphabet.
const Size = cipher.AlphabetSize * cipher.AlphabetSize * cipher.AlphabetSize * cipher.AlphabetSize

// floorProbability is the count given to a sequence never observed in training,
// relative to the total.
const floorProbability = 0.01

const source = "quadgram table"

// Counts maps an uppercase four-letter sequence to its observed count.
type Counts map[string]uint64

// Model holds log10 probabilities for every four-letter sequence. It is never
// mutated after construction and is safe for concurrent use.
type Model struct {
	scores []float64 // indexed by sequence index, floor when unobserved
	seen   []bool
	floor  float64
	total  uint64
	count  int
}

// #endregion types

// #region load

// LoadFile reads a frequency table from path. See Load.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quadgrams %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads "SEQUENCE COUNT" lines. Blank lines are skipped; any other line
// that is not exactly a four-letter sequence followed by a positive integer
// count is rejected, as are duplicate sequences.
func Load(r io.Reader) (*Model, error) {
	counts := make(Counts)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, malformedLine(lineNum, line, fmt.Sprintf("expected 2 fields, got %d", len(fields)))
		}
		seq := strings.ToUpper(fields[0])
		if _, ok := index(seq); !ok {
			return nil, malformedLine(lineNum, line, "sequence must be exactly 4 letters A-Z")
		}
		c, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, malformedLine(lineNum, line, "count is not a non-negative integer")
		}
		if c == 0 {
			return nil, malformedLine(lineNum, line, "count must be positive")
		}
		if _, dup := counts[seq]; dup {
			return nil, malformedLine(lineNum, line, "duplicate sequence "+seq)
		}
		counts[seq] = c
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read quadgrams: %w", err)
	}
	return FromCounts(counts)
}

func malformedLine(n int, line, reason string) error {
	return &cipher.MalformedInputError{Source: source, Line: n, Token: line, Reason: reason}
}

// FromCounts builds a model from an in-memory frequency table.
func FromCounts(counts Counts) (*Model, error) {
	var total uint64
	for seq, c := range counts {
		if _, ok := index(seq); !ok {
			return nil, &cipher.MalformedInputError{Source: source, Token: seq, Reason: "sequence must be exactly 4 letters A-Z"}
		}
		if c == 0 {
			return nil, &cipher.MalformedInputError{Source: source, Token: seq, Reason: "count must be positive"}
		}
		total += c
	}
	if total == 0 {
		return nil, &cipher.MalformedInputError{Source: source, Reason: "table is empty"}
	}

	m := &Model{
		scores: make([]float64, Size),
		seen:   make([]bool, Size),
		floor:  math.Log10(floorProbability / float64(total)),
		total:  total,
		count:  len(counts),
	}
	for i := range m.scores {
		m.scores[i] = m.floor
	}
	for seq, c := range counts {
		i, _ := index(seq)
		m.scores[i] = math.Log10(float64(c) / float64(total))
		m.seen[i] = true
	}
	return m, nil
}

// #endregion load

// #region score

// Score sums the log10 probability of every overlapping quadgram of text after
// uppercasing it and dropping non-letters. Text with fewer than four letters
// scores 0.
func (m *Model) Score(text string) float64 {
	return m.ScoreLetters(cipher.Letters(text))
}

// ScoreLetters is Score over already-normalized alphabet indices (0-25).
func (m *Model) ScoreLetters(letters []byte) float64 {
	if len(letters) < 4 {
		return 0
	}
	const window = cipher.AlphabetSize * cipher.AlphabetSize * cipher.AlphabetSize
	idx := int(letters[0])*cipher.AlphabetSize*cipher.AlphabetSize + int(letters[1])*cipher.AlphabetSize + int(letters[2])
	var sum float64
	for _, l := range letters[3:] {
		idx = (idx%window)*cipher.AlphabetSize + int(l)
		sum += m.scores[idx]
	}
	return sum
}

// #endregion score

// #region accessors

// Floor returns the score assigned to unobserved sequences.
func (m *Model) Floor() float64 { return m.floor }

// Total returns the sum of all training counts.
func (m *Model) Total() uint64 { return m.total }

// Len returns the number of distinct observed sequences.
func (m *Model) Len() int { return m.count }

// Lookup returns the score of seq and whether it was observed in training.
// The score of an unobserved sequence is Floor.
func (m *Model) Lookup(seq string) (float64, bool) {
	i, ok := index(strings.ToUpper(seq))
	if !ok {
		return m.floor, false
	}
	return m.scores[i], m.seen[i]
}

// #endregion accessors

// #region helpers

func index(seq string) (int, bool) {
	if len(seq) != 4 {
		return 0, false
	}
	idx := 0
	for i := 0; i < 4; i++ {
		c := seq[i]
		if c < 'A' || c > 'Z' {
			return 0, false
		}
		idx = idx*cipher.AlphabetSize + int(c-'A')
	}
	return idx, true
}

// #endregion helpers
