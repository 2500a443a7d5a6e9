package quadgram

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/danielpatrickdp/quadbreak/internal/cipher"
)

// #region count

// Count tallies every overlapping quadgram of a training corpus. Letters are
// normalized as in Score, so windows span word and line boundaries.
func Count(r io.Reader) (Counts, error) {
	counts := make(Counts)
	br := bufio.NewReader(r)
	var win [4]byte
	n := 0
	for {
		ch, _, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read corpus: %w", err)
		}
		i, ok := cipher.LetterIndex(ch)
		if !ok {
			continue
		}
		copy(win[:], win[1:])
		win[3] = cipher.Alphabet[i]
		n++
		if n >= 4 {
			counts[string(win[:])]++
		}
	}
	return counts, nil
}

// #endregion count

// #region write-table

// WriteTable writes counts in the format Load reads, most frequent first and
// alphabetical among equal counts.
func WriteTable(w io.Writer, counts Counts) error {
	seqs := make([]string, 0, len(counts))
	for seq := range counts {
		seqs = append(seqs, seq)
	}
	slices.SortFunc(seqs, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	bw := bufio.NewWriter(w)
	for _, seq := range seqs {
		if _, err := fmt.Fprintf(bw, "%s %d\n", seq, counts[seq]); err != nil {
			return fmt.Errorf("write quadgrams: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write quadgrams: %w", err)
	}
	return nil
}

// #endregion write-table
