package pcfg

import (
	"github.com/pkg/errors"
)

var (
	// ErrFormat is returned when a treebank line can not be reduced to the
	// root symbol
	ErrFormat = errors.New("uncorrectly formatted treebank line")

	// ErrNotInGrammar is returned when the top cell of the CYK chart does not
	// contain the root symbol
	ErrNotInGrammar = errors.New("sentence could not be produced with the grammar")

	// ErrLookup is returned when the embedding store contradicts itself
	ErrLookup = errors.New("inconsistent embedding vocabulary")
)

// IsFormatError reports whether err was caused by ErrFormat
func IsFormatError(err error) bool {
	return errors.Cause(err) == ErrFormat
}

// IsNotInGrammar reports whether err was caused by ErrNotInGrammar
func IsNotInGrammar(err error) bool {
	return errors.Cause(err) == ErrNotInGrammar
}

// IsLookupError reports whether err was caused by ErrLookup
func IsLookupError(err error) bool {
	return errors.Cause(err) == ErrLookup
}
