// Package caesar decodes and breaks fixed-rotation ciphers.
package caesar

import (
	"strings"

	"github.com/danielpatrickdp/quadbreak/internal/cipher"
)

// #region types

// Scorer rates how language-like a text is; higher is better.
type Scorer interface {
	Score(text string) float64
}

// Result is a decoded candidate and its fitness.
type Result struct {
	Shift int
	Text  string
	Score float64
}

// #endregion types

// #region decrypt

// Decrypt rotates every letter of text backward by shift positions within its
// own case. Other characters pass through unchanged.
func Decrypt(text string, shift int) string {
	shift = ((shift % cipher.AlphabetSize) + cipher.AlphabetSize) % cipher.AlphabetSize

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		i, ok := cipher.LetterIndex(r)
		if !ok {
			b.WriteRune(r)
			continue
		}
		base := 'A'
		if r >= 'a' {
			base = 'a'
		}
		b.WriteRune(base + rune((i-shift+cipher.AlphabetSize)%cipher.AlphabetSize))
	}
	return b.String()
}

// #endregion decrypt

// #region break

// Candidates decodes ciphertext with each of the 26 shifts, in shift order.
func Candidates(ciphertext string, s Scorer) []Result {
	out := make([]Result, cipher.AlphabetSize)
	for shift := range out {
		text := Decrypt(ciphertext, shift)
		out[shift] = Result{Shift: shift, Text: text, Score: s.Score(text)}
	}
	return out
}

// Break tries every shift and returns the best-scoring decode. On equal scores
// the lowest shift wins.
func Break(ciphertext string, s Scorer) Result {
	candidates := Candidates(ciphertext, s)
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best
}

// #endregion break
