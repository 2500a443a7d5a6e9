package caesar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/quadbreak/internal/quadgram"
)

const twoCities = `It was the best of times, it was the worst of times, it was the age of wisdom,
it was the age of foolishness, it was the epoch of belief, it was the epoch of incredulity,
it was the season of Light, it was the season of Darkness.`

// encrypt is the forward rotation, used only to build ciphertexts.
func encrypt(text string, shift int) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune('A' + (r-'A'+rune(shift))%26)
		case r >= 'a' && r <= 'z':
			b.WriteRune('a' + (r-'a'+rune(shift))%26)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func builtin(t *testing.T) *quadgram.Model {
	t.Helper()
	m, err := quadgram.Builtin()
	require.NoError(t, err)
	return m
}

// constScorer scores every text the same.
type constScorer struct{}

func (constScorer) Score(string) float64 { return -1 }

// #region decrypt-tests

func TestDecryptKhoor(t *testing.T) {
	assert.Equal(t, "Hello", Decrypt("Khoor", 3))
}

func TestDecryptPreservesCaseAndPunctuation(t *testing.T) {
	assert.Equal(t, "Zebra, apple! 42", Decrypt("Cheud, dssoh! 42", 3))
	assert.Equal(t, "abc", Decrypt("abc", 0))
}

func TestDecryptReducesShift(t *testing.T) {
	assert.Equal(t, Decrypt("Khoor", 3), Decrypt("Khoor", 29))
	assert.Equal(t, Decrypt("Khoor", 23), Decrypt("Khoor", -3))
}

func TestDecryptInvertsEncrypt(t *testing.T) {
	texts := []string{twoCities, "Hello, World!", "ZzAa \n\t~"}
	for _, text := range texts {
		for shift := 0; shift < 26; shift++ {
			assert.Equal(t, text, Decrypt(encrypt(text, shift), shift), "shift %d", shift)
		}
	}
}

// #endregion decrypt-tests

// #region break-tests

func TestBreakRecoversShift(t *testing.T) {
	m := builtin(t)
	for _, shift := range []int{0, 1, 3, 13, 25} {
		got := Break(encrypt(twoCities, shift), m)
		assert.Equal(t, shift, got.Shift)
		assert.Equal(t, twoCities, got.Text)
		assert.Equal(t, m.Score(twoCities), got.Score)
	}
}

func TestBreakUnseenText(t *testing.T) {
	m := builtin(t)
	plain := "Please meet me at the north gate of the castle tomorrow evening after the bells have rung."
	got := Break(encrypt(plain, 11), m)
	assert.Equal(t, 11, got.Shift)
	assert.Equal(t, plain, got.Text)
}

func TestBreakIsDeterministic(t *testing.T) {
	m := builtin(t)
	ct := encrypt(twoCities, 7)
	assert.Equal(t, Break(ct, m), Break(ct, m))
}

func TestBreakTieKeepsFirstShift(t *testing.T) {
	got := Break("Khoor", constScorer{})
	assert.Equal(t, 0, got.Shift)
	assert.Equal(t, "Khoor", got.Text)
}

func TestBreakShortText(t *testing.T) {
	got := Break("Hi!", builtin(t))
	assert.Equal(t, 0, got.Shift)
	assert.Equal(t, 0.0, got.Score)
}

func TestCorrectShiftOutscoresWrongShifts(t *testing.T) {
	m := builtin(t)
	corpus := []string{
		twoCities,
		"Call me Ishmael. Some years ago, never mind how long precisely, having little or no money in my purse.",
		"The old lighthouse keeper climbed the spiral stairs each evening and trimmed the wick of the great lamp.",
	}
	for _, plain := range corpus {
		ct := encrypt(plain, 5)
		candidates := Candidates(ct, m)
		require.Len(t, candidates, 26)

		correct := candidates[5].Score
		beaten := 0
		for shift, c := range candidates {
			if shift != 5 && correct > c.Score {
				beaten++
			}
		}
		assert.GreaterOrEqual(t, float64(beaten)/25, 0.9, "text %q", plain[:20])
	}
}

// #endregion break-tests
