// Package oov assigns tag distributions to tokens missing from the lexicon.
//
// A token goes through the following layers, the first one giving an answer
// wins:
//
//  1. exact lookup in the lexicon
//  2. the nearest embedding neighbour that is in the lexicon
//  3. lexicon words within a capped edit distance, their tag probabilities
//     summed and renormalized
//  4. the lexicon entry of the prefix of a compound token, like "pomme_de_terre"
//  5. the uniform distribution over every tag of the lexicon
package oov

import (
	"strings"
	"sync/atomic"

	"github.com/ling0322/pcfg"
	"github.com/pkg/errors"
)

// Source identifies the layer that resolved a token
type Source int

const (
	FromLexicon Source = iota
	FromEmbedding
	FromEditDistance
	FromCompound
	FromUniform
	numSources
)

var sourceNames = [numSources]string{"lexicon", "embedding", "edit-distance", "compound", "uniform"}

func (s Source) String() string {
	if s < 0 || s >= numSources {
		return "unknown"
	}
	return sourceNames[s]
}

// DefaultMaxEditDistance is the largest edit distance of a candidate word
const DefaultMaxEditDistance = 2

// Options configures a Resolver
type Options struct {
	// MaxEditDistance caps the Levenshtein distance, candidates are the words
	// within this distance. 0 means DefaultMaxEditDistance, a negative value
	// disables the edit distance layer
	MaxEditDistance int

	// CompoundSeparator splits compound tokens. Empty means "_"
	CompoundSeparator string
}

// Resolver maps tokens to tag distributions. It only reads its lexicon and
// embeddings, so it can be shared between goroutines
type Resolver struct {
	reverse    *pcfg.ReverseLexicon
	embeddings Embeddings
	vocab      *vocabulary
	uniform    pcfg.TagDistribution
	opts       Options

	stats [numSources]atomic.Int64
}

// New creates a Resolver over lexicon. embeddings may be nil, the embedding
// layer is then skipped
func New(lexicon *pcfg.Lexicon, embeddings Embeddings, opts Options) (*Resolver, error) {
	if len(lexicon.Tags()) == 0 {
		return nil, errors.New("oov.New: empty lexicon")
	}
	if opts.MaxEditDistance == 0 {
		opts.MaxEditDistance = DefaultMaxEditDistance
	}
	if opts.CompoundSeparator == "" {
		opts.CompoundSeparator = "_"
	}

	reverse := lexicon.Reverse()
	return &Resolver{
		reverse:    reverse,
		embeddings: embeddings,
		vocab:      newVocabulary(reverse.Words()),
		uniform:    pcfg.UniformDistribution(reverse.Tags()),
		opts:       opts,
	}, nil
}

// Resolve implements pcfg.TagResolver
func (r *Resolver) Resolve(tokens []string) ([]pcfg.TagDistribution, error) {
	dists := make([]pcfg.TagDistribution, len(tokens))
	for i, token := range tokens {
		d, _, err := r.ResolveToken(token)
		if err != nil {
			return nil, err
		}
		dists[i] = d
	}
	return dists, nil
}

// ResolveToken returns the tag distribution of token and the layer which
// produced it
func (r *Resolver) ResolveToken(token string) (pcfg.TagDistribution, Source, error) {
	d, source, err := r.resolve(token)
	if err != nil {
		return nil, source, err
	}
	r.stats[source].Add(1)
	return d, source, nil
}

func (r *Resolver) resolve(token string) (pcfg.TagDistribution, Source, error) {
	if d, ok := r.reverse.Lookup(token); ok {
		return d, FromLexicon, nil
	}

	if r.embeddings != nil && r.embeddings.Contains(token) {
		d, ok, err := r.nearestNeighbor(token)
		if err != nil {
			return nil, FromEmbedding, err
		}
		if ok {
			return d, FromEmbedding, nil
		}
	}

	if r.opts.MaxEditDistance > 0 {
		if d, ok := r.closeWords(token); ok {
			return d, FromEditDistance, nil
		}
	}

	if i := strings.Index(token, r.opts.CompoundSeparator); i > 0 {
		if d, ok := r.reverse.Lookup(token[:i]); ok {
			return d, FromCompound, nil
		}
	}

	return r.uniform, FromUniform, nil
}

// nearestNeighbor scans the embedding neighbours of token by decreasing
// similarity and returns the distribution of the first one in the lexicon
func (r *Resolver) nearestNeighbor(token string) (pcfg.TagDistribution, bool, error) {
	row, ok := r.embeddings.Index(token)
	if !ok {
		return nil, false, errors.Wrapf(pcfg.ErrLookup, "'%s' has no row", token)
	}
	for _, neighbor := range r.embeddings.Neighbors(row) {
		word := r.embeddings.Word(neighbor)
		if word == token {
			continue
		}
		if d, ok := r.reverse.Lookup(word); ok {
			return d, true, nil
		}
	}
	return nil, false, nil
}

// closeWords sums the distributions of the lexicon words within the edit
// distance cap of token
func (r *Resolver) closeWords(token string) (pcfg.TagDistribution, bool) {
	limit := r.opts.MaxEditDistance
	sums := map[pcfg.Symbol]float64{}
	found := false
	r.vocab.within(token, limit, func(candidate string) bool {
		if CappedDistance(candidate, token, limit) > limit {
			return true
		}
		found = true
		d, _ := r.reverse.Lookup(candidate)
		for _, tp := range d {
			sums[tp.Tag] += tp.Prob
		}
		return true
	})
	if !found {
		return nil, false
	}

	agg := pcfg.TagDistribution{}
	for _, tag := range r.reverse.Tags() {
		if p, ok := sums[tag]; ok {
			agg = append(agg, pcfg.TagProb{Tag: tag, Prob: p})
		}
	}
	return agg.Normalize(), true
}

// Stats returns how many tokens each layer resolved so far
func (r *Resolver) Stats() map[Source]int64 {
	stats := map[Source]int64{}
	for s := Source(0); s < numSources; s++ {
		stats[s] = r.stats[s].Load()
	}
	return stats
}
