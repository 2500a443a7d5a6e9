package quadgram

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountSpansWordBoundaries(t *testing.T) {
	counts, err := Count(strings.NewReader("The then.\nTHE"))
	require.NoError(t, err)

	// THETHENTHE
	assert.Equal(t, Counts{
		"THET": 1, "HETH": 1, "ETHE": 1, "THEN": 1, "HENT": 1, "ENTH": 1, "NTHE": 1,
	}, counts)
}

func TestCountShortCorpus(t *testing.T) {
	counts, err := Count(strings.NewReader("a b c"))
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestWriteTableOrderAndReload(t *testing.T) {
	counts := Counts{"THER": 5, "ABCD": 2, "TION": 5, "ZZZZ": 1}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, counts))
	assert.Equal(t, "THER 5\nTION 5\nABCD 2\nZZZZ 1\n", buf.String())

	m, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(13), m.Total())
	assert.Equal(t, 4, m.Len())
}

func TestCountedCorpusScoresItself(t *testing.T) {
	corpus := English()
	counts, err := Count(strings.NewReader(corpus))
	require.NoError(t, err)

	m, err := FromCounts(counts)
	require.NoError(t, err)

	var total uint64
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, total, m.Total())
	assert.Greater(t, m.Len(), 1000)
}
