package oov

import (
	"unicode/utf8"

	"github.com/google/btree"
)

type vocabEntry struct {
	length int
	word   string
}

func lessVocabEntry(a, b vocabEntry) bool {
	if a.length != b.length {
		return a.length < b.length
	}
	return a.word < b.word
}

// vocabulary orders the lexicon words by rune length, then by spelling. Words
// whose length differs by more than k can not be within edit distance k, so
// only a slice of the tree is scanned
type vocabulary struct {
	tree *btree.BTreeG[vocabEntry]
}

func newVocabulary(words []string) *vocabulary {
	tree := btree.NewG(16, lessVocabEntry)
	for _, word := range words {
		tree.ReplaceOrInsert(vocabEntry{length: utf8.RuneCountInString(word), word: word})
	}
	return &vocabulary{tree: tree}
}

// within calls fn, in order, for each word whose length is within k of the
// length of word. Iteration stops when fn returns false
func (v *vocabulary) within(word string, k int, fn func(candidate string) bool) {
	n := utf8.RuneCountInString(word)
	lo := vocabEntry{length: n - k}
	hi := vocabEntry{length: n + k + 1}
	v.tree.AscendRange(lo, hi, func(e vocabEntry) bool {
		return fn(e.word)
	})
}

func (v *vocabulary) Len() int {
	return v.tree.Len()
}
