// Package decoder turns whitespace-separated base-2 tokens back into text.
package decoder

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/danielpatrickdp/quadbreak/internal/cipher"
)

const source = "binary token"

// #region decode-binary

// DecodeBinary converts each whitespace-separated base-2 token into the
// character with that code point and concatenates them in order. Any run of
// whitespace, newlines included, separates tokens. The first token that does
// not parse fails the whole input.
func DecodeBinary(encoded string) (string, error) {
	tokens := strings.Fields(encoded)

	var b strings.Builder
	b.Grow(len(tokens))
	for i, tok := range tokens {
		r, err := decodeToken(tok)
		if err != nil {
			err.Reason = "token " + strconv.Itoa(i+1) + ": " + err.Reason
			return "", err
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

func decodeToken(tok string) (rune, *cipher.MalformedInputError) {
	v, err := strconv.ParseUint(tok, 2, 32)
	if err != nil {
		reason := "not a base-2 numeral"
		if errors.Is(err, strconv.ErrRange) {
			reason = "value out of range"
		}
		return 0, &cipher.MalformedInputError{Source: source, Token: tok, Reason: reason}
	}
	r := rune(v)
	if !utf8.ValidRune(r) {
		return 0, &cipher.MalformedInputError{Source: source, Token: tok, Reason: "not a valid character code"}
	}
	return r, nil
}

// #endregion decode-binary
