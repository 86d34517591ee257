package oov

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/ynqa/wego/pkg/embedding"
	"gonum.org/v1/gonum/mat"
)

// Embeddings is the read-only word vector store used to find the neighbours
// of an out-of-vocabulary token
type Embeddings interface {
	// Contains reports whether word has a vector
	Contains(word string) bool

	// Index returns the row of word
	Index(word string) (int, bool)

	// Word returns the word stored at row
	Word(row int) string

	// Neighbors returns every other row by decreasing cosine similarity to
	// row. Rows with the same similarity keep their storage order
	Neighbors(row int) []int
}

// VectorStore keeps the vectors of a vocabulary as the rows of a matrix
type VectorStore struct {
	words   []string
	index   map[string]int
	vectors *mat.Dense
	norms   []float64
}

// NewVectorStore creates a VectorStore, vectors[i] being the vector of
// words[i]. All vectors must have the same width. Repeated words keep their
// first vector
func NewVectorStore(words []string, vectors [][]float64) (*VectorStore, error) {
	if len(words) != len(vectors) {
		return nil, errors.Errorf("NewVectorStore: %d words for %d vectors", len(words), len(vectors))
	}
	s := &VectorStore{
		words: words,
		index: make(map[string]int, len(words)),
	}
	if len(words) == 0 {
		return s, nil
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.New("NewVectorStore: empty vectors")
	}
	data := make([]float64, 0, len(words)*dim)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, errors.Errorf("NewVectorStore: vector of '%s' has %d values, %d expected", words[i], len(v), dim)
		}
		data = append(data, v...)
		if _, ok := s.index[words[i]]; !ok {
			s.index[words[i]] = i
		}
	}
	s.vectors = mat.NewDense(len(words), dim, data)

	s.norms = make([]float64, len(words))
	for i := range words {
		s.norms[i] = mat.Norm(s.vectors.RowView(i), 2)
	}
	return s, nil
}

// FromEmbeddings creates a VectorStore from wego embeddings
func FromEmbeddings(embs embedding.Embeddings) (*VectorStore, error) {
	words := make([]string, len(embs))
	vectors := make([][]float64, len(embs))
	for i, emb := range embs {
		words[i] = emb.Word
		vectors[i] = emb.Vector
	}
	return NewVectorStore(words, vectors)
}

// LoadEmbeddings reads word vectors in the word2vec text format
func LoadEmbeddings(r io.Reader) (*VectorStore, error) {
	embs, err := embedding.Load(r)
	if err != nil {
		return nil, errors.Wrap(err, "LoadEmbeddings")
	}
	return FromEmbeddings(embs)
}

// Len returns the number of rows
func (s *VectorStore) Len() int {
	return len(s.words)
}

// Contains implements Embeddings
func (s *VectorStore) Contains(word string) bool {
	_, ok := s.index[word]
	return ok
}

// Index implements Embeddings
func (s *VectorStore) Index(word string) (int, bool) {
	row, ok := s.index[word]
	return row, ok
}

// Word implements Embeddings
func (s *VectorStore) Word(row int) string {
	return s.words[row]
}

// Similarities returns the cosine similarity between row and every row
func (s *VectorStore) Similarities(row int) []float64 {
	n := len(s.words)
	dots := mat.NewVecDense(n, nil)
	dots.MulVec(s.vectors, s.vectors.RowView(row))

	sims := make([]float64, n)
	for i := range sims {
		norm := s.norms[i] * s.norms[row]
		if norm == 0 {
			continue
		}
		sims[i] = dots.AtVec(i) / norm
	}
	return sims
}

// Neighbors implements Embeddings
func (s *VectorStore) Neighbors(row int) []int {
	sims := s.Similarities(row)
	order := make([]int, 0, len(sims)-1)
	for i := range sims {
		if i != row {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sims[order[a]] > sims[order[b]]
	})
	return order
}
