package decoder

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/quadbreak/internal/cipher"
)

// encodeBinary is the inverse used only to build inputs.
func encodeBinary(text string, width int) string {
	parts := make([]string, 0, len(text))
	for _, r := range text {
		parts = append(parts, fmt.Sprintf("%0*b", width, r))
	}
	return strings.Join(parts, " ")
}

func TestDecodeBinaryHello(t *testing.T) {
	got, err := DecodeBinary("01001000 01100101 01101100 01101100 01101111")
	require.NoError(t, err)
	assert.Equal(t, "Hello", got)
}

func TestDecodeBinaryRoundTrip(t *testing.T) {
	var all strings.Builder
	for c := 0; c < 128; c++ {
		all.WriteByte(byte(c))
	}
	inputs := []string{
		"Hello, World!",
		"Wkh txlfn eurzq ira mxpsv ryhu wkh odcb grj.",
		"line one\nline two\ttabbed",
		all.String(),
	}
	for _, in := range inputs {
		for _, width := range []int{7, 8} {
			got, err := DecodeBinary(encodeBinary(in, width))
			require.NoError(t, err)
			assert.Equal(t, in, got, "width %d", width)
		}
	}
}

func TestDecodeBinaryWhitespaceRuns(t *testing.T) {
	got, err := DecodeBinary("  1001000\n\n\t1101001  \r\n")
	require.NoError(t, err)
	assert.Equal(t, "Hi", got)
}

func TestDecodeBinaryEmpty(t *testing.T) {
	got, err := DecodeBinary(" \n\t ")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestDecodeBinaryRejectsNonBinaryToken(t *testing.T) {
	got, err := DecodeBinary("01001000 01102101 01101100")
	require.Error(t, err)
	assert.Empty(t, got)

	var malformed *cipher.MalformedInputError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "01102101", malformed.Token)
	assert.Contains(t, malformed.Reason, "token 2")
}

func TestDecodeBinaryRejectsInvalidCodePoint(t *testing.T) {
	// 0xD800 is a surrogate half.
	_, err := DecodeBinary(fmt.Sprintf("%b", 0xD800))

	var malformed *cipher.MalformedInputError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Reason, "character code")
}

func TestDecodeBinaryRejectsSignedToken(t *testing.T) {
	_, err := DecodeBinary("+0101")
	var malformed *cipher.MalformedInputError
	require.True(t, errors.As(err, &malformed))
}
