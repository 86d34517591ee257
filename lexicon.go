package pcfg

// TagProb is a single entry of a TagDistribution
type TagProb struct {
	Tag  Symbol
	Prob float64
}

// TagDistribution assigns probabilities to the POS tags of one token. Entries
// keep the lexicon tag order
type TagDistribution []TagProb

// Prob returns the probability of tag, 0 when absent
func (d TagDistribution) Prob(tag Symbol) float64 {
	for _, tp := range d {
		if tp.Tag == tag {
			return tp.Prob
		}
	}
	return 0
}

// Sum returns the total probability mass
func (d TagDistribution) Sum() float64 {
	total := 0.0
	for _, tp := range d {
		total += tp.Prob
	}
	return total
}

// Normalize returns a copy of d whose probabilities sum to 1
func (d TagDistribution) Normalize() TagDistribution {
	total := d.Sum()
	normed := make(TagDistribution, len(d))
	for i, tp := range d {
		normed[i] = TagProb{Tag: tp.Tag, Prob: tp.Prob / total}
	}
	return normed
}

// UniformDistribution spreads the mass equally over tags
func UniformDistribution(tags []Symbol) TagDistribution {
	d := make(TagDistribution, len(tags))
	for i, tag := range tags {
		d[i] = TagProb{Tag: tag, Prob: 1.0 / float64(len(tags))}
	}
	return d
}

type lexiconRow struct {
	words []string
	probs map[string]float64
}

// Lexicon maps a POS tag to the probabilities of the words it emits
type Lexicon struct {
	Symbols *SymbolTable

	tags []Symbol
	rows map[Symbol]*lexiconRow
}

// NewLexicon creates an empty lexicon over symbols
func NewLexicon(symbols *SymbolTable) *Lexicon {
	return &Lexicon{
		Symbols: symbols,
		tags:    []Symbol{},
		rows:    map[Symbol]*lexiconRow{},
	}
}

// Add adds count to the pair (tag, word)
func (l *Lexicon) Add(tag Symbol, word string, count float64) {
	row, ok := l.rows[tag]
	if !ok {
		row = &lexiconRow{probs: map[string]float64{}}
		l.rows[tag] = row
		l.tags = append(l.tags, tag)
	}
	if _, ok := row.probs[word]; !ok {
		row.words = append(row.words, word)
	}
	row.probs[word] += count
}

// Normalize turns counts into probabilities, every tag row sums to 1
func (l *Lexicon) Normalize() {
	for _, tag := range l.tags {
		row := l.rows[tag]
		total := 0.0
		for _, word := range row.words {
			total += row.probs[word]
		}
		for _, word := range row.words {
			row.probs[word] /= total
		}
	}
}

// Tags returns every tag of the lexicon in first seen order
func (l *Lexicon) Tags() []Symbol {
	return l.tags
}

// Words returns the words emitted by tag in first seen order
func (l *Lexicon) Words(tag Symbol) []string {
	if row, ok := l.rows[tag]; ok {
		return row.words
	}
	return nil
}

// Prob returns P(word | tag)
func (l *Lexicon) Prob(tag Symbol, word string) float64 {
	if row, ok := l.rows[tag]; ok {
		return row.probs[word]
	}
	return 0
}

// Reverse builds the word -> tag distribution index
func (l *Lexicon) Reverse() *ReverseLexicon {
	rev := &ReverseLexicon{
		tags:  l.tags,
		words: []string{},
		dists: map[string]TagDistribution{},
	}
	for _, tag := range l.tags {
		row := l.rows[tag]
		for _, word := range row.words {
			if _, ok := rev.dists[word]; !ok {
				rev.words = append(rev.words, word)
			}
			rev.dists[word] = append(rev.dists[word], TagProb{Tag: tag, Prob: row.probs[word]})
		}
	}
	return rev
}

// ReverseLexicon maps a surface word to the probabilities of its tags. It is
// read-only once built
type ReverseLexicon struct {
	tags  []Symbol
	words []string
	dists map[string]TagDistribution
}

// Lookup returns the tag distribution of word
func (r *ReverseLexicon) Lookup(word string) (TagDistribution, bool) {
	d, ok := r.dists[word]
	return d, ok
}

// Words returns the vocabulary in first seen order
func (r *ReverseLexicon) Words() []string {
	return r.words
}

// Tags returns all the tags appearing in the lexicon
func (r *ReverseLexicon) Tags() []Symbol {
	return r.tags
}
