package quadgram

import (
	_ "embed"
	"strings"
	"sync"
)

// #region builtin

//go:embed corpus/english.txt
var englishCorpus string

// English returns the embedded training corpus.
func English() string { return englishCorpus }

var builtin = sync.OnceValues(func() (*Model, error) {
	counts, err := Count(strings.NewReader(englishCorpus))
	if err != nil {
		return nil, err
	}
	return FromCounts(counts)
})

// Builtin returns the model trained on the embedded English corpus. It is built
// on first use and shared afterwards.
func Builtin() (*Model, error) {
	return builtin()
}

// #endregion builtin
