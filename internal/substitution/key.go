// Package substitution breaks monoalphabetic substitution ciphers by
// simulated-annealing search over keys.
package substitution

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/danielpatrickdp/quadbreak/internal/cipher"
)

// #region key

// Key is a permutation of the alphabet. Key[p] is the ciphertext letter that
// enciphers plaintext letter p, so the key reads as the cipher alphabet
// written under A..Z.
type Key [cipher.AlphabetSize]byte

// Identity returns the key that leaves every letter unchanged.
func Identity() Key {
	var k Key
	for i := range k {
		k[i] = byte(i)
	}
	return k
}

// ParseKey reads a 26-letter cipher alphabet such as "QWERTYUIOPASDFGHJKLZXCVBNM".
func ParseKey(s string) (Key, error) {
	var k Key
	if len(s) != cipher.AlphabetSize {
		return k, fmt.Errorf("key must have %d letters, got %d", cipher.AlphabetSize, len(s))
	}
	for i, r := range s {
		idx, ok := cipher.LetterIndex(r)
		if !ok {
			return k, fmt.Errorf("key position %d: %q is not a letter", i, r)
		}
		k[i] = byte(idx)
	}
	if !k.Valid() {
		return k, fmt.Errorf("key %q repeats a letter", s)
	}
	return k, nil
}

// Valid reports whether k is a bijection over the alphabet.
func (k Key) Valid() bool {
	var seen [cipher.AlphabetSize]bool
	for _, c := range k {
		if int(c) >= cipher.AlphabetSize || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

// Inverse returns the decoding table: Inverse()[c] is the plaintext letter
// for ciphertext letter c.
func (k Key) Inverse() [cipher.AlphabetSize]byte {
	var inv [cipher.AlphabetSize]byte
	for p, c := range k {
		inv[c] = byte(p)
	}
	return inv
}

// Swap exchanges the cipher letters at plaintext positions i and j.
func (k *Key) Swap(i, j int) {
	k[i], k[j] = k[j], k[i]
}

func (k Key) String() string {
	var b [cipher.AlphabetSize]byte
	for i, c := range k {
		b[i] = cipher.Alphabet[c]
	}
	return string(b[:])
}

// #endregion key

// #region random

// RandomKey draws a uniformly random permutation.
func RandomKey(rng *rand.Rand) Key {
	k := Identity()
	rng.Shuffle(len(k), func(i, j int) { k.Swap(i, j) })
	return k
}

// ProposeNeighbor returns a copy of key with two distinct, uniformly chosen
// positions swapped. key itself is not modified.
func ProposeNeighbor(key Key, rng *rand.Rand) Key {
	i := rng.IntN(cipher.AlphabetSize)
	j := rng.IntN(cipher.AlphabetSize - 1)
	if j >= i {
		j++
	}
	key.Swap(i, j)
	return key
}

// Accept is the annealing acceptance rule. Improvements are always taken; a
// worse candidate is taken with probability exp(delta/temperature) while the
// temperature stays above minTemperature, and never below it.
func Accept(delta, temperature, minTemperature float64, rng *rand.Rand) bool {
	if delta > 0 {
		return true
	}
	if temperature <= minTemperature {
		return false
	}
	return rng.Float64() < math.Exp(delta/temperature)
}

// #endregion random

// #region decrypt

// Decrypt uppercases text and replaces every letter through key. Other
// characters pass through unchanged.
func Decrypt(text string, key Key) string {
	inv := key.Inverse()
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if c, ok := cipher.LetterIndex(r); ok {
			b.WriteByte(cipher.Alphabet[inv[c]])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func decryptLetters(dst, letters []byte, inv *[cipher.AlphabetSize]byte) {
	for i, c := range letters {
		dst[i] = inv[c]
	}
}

// #endregion decrypt
