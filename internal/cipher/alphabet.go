package cipher

// #region alphabet

// Alphabet is the only alphabet the breakers operate on.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// AlphabetSize is the number of letters in Alphabet.
const AlphabetSize = len(Alphabet)

// LetterIndex returns the 0-based alphabet position of r, ignoring case.
func LetterIndex(r rune) (int, bool) {
	switch {
	case r >= 'A' && r <= 'Z':
		return int(r - 'A'), true
	case r >= 'a' && r <= 'z':
		return int(r - 'a'), true
	}
	return 0, false
}

// #endregion alphabet

// #region normalize

// Letters uppercases text, drops everything outside A-Z and returns the
// remaining letters as alphabet indices.
func Letters(text string) []byte {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if i, ok := LetterIndex(r); ok {
			out = append(out, byte(i))
		}
	}
	return out
}

// Normalize is Letters rendered back as an uppercase string.
func Normalize(text string) string {
	letters := Letters(text)
	for i, l := range letters {
		letters[i] = Alphabet[l]
	}
	return string(letters)
}

// #endregion normalize
