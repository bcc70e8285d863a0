// Package ontology holds an in-memory similarity index over schema.org
// class documents, used to shortlist candidate classes before the mapping
// client asks an LLM to choose among them.
package ontology

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"
)

// Document is one indexed ontology entry: a class label, its URI, and the
// text the embedding was computed from.
type Document struct {
	Label  string    `json:"label"`
	URI    string    `json:"uri"`
	Text   string    `json:"text"`
	Vector []float64 `json:"vector,omitempty"`
}

// Match is one search hit with its cosine similarity score.
type Match struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// Embedder turns text into a fixed-length vector. The default is a
// deterministic feature-hashing embedder so the index works offline;
// callers with a real embedding model substitute their own.
type Embedder interface {
	Embed(text string) []float64
}

// Index is a flat in-memory vector index searched by brute-force cosine
// similarity. At schema.org scale (hundreds of classes) a scan beats any
// structure worth maintaining.
type Index struct {
	mu       sync.RWMutex
	docs     []Document
	embedder Embedder
}

// NewIndex creates an empty index. A nil embedder selects the built-in
// hashing embedder.
func NewIndex(embedder Embedder) *Index {
	if embedder == nil {
		embedder = HashingEmbedder{Dimensions: 256}
	}
	return &Index{embedder: embedder}
}

// Add indexes a document. If the document carries no vector, one is
// computed from its text.
func (ix *Index) Add(doc Document) {
	if len(doc.Vector) == 0 {
		doc.Vector = ix.embedder.Embed(doc.Text)
	}
	ix.mu.Lock()
	ix.docs = append(ix.docs, doc)
	ix.mu.Unlock()
}

// Len reports the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// Search returns the k most similar documents to the query text, best
// first. An empty query returns no matches.
func (ix *Index) Search(query string, k int) []Match {
	if strings.TrimSpace(query) == "" || k <= 0 {
		return nil
	}
	qv := ix.embedder.Embed(query)

	ix.mu.RLock()
	defer ix.mu.RUnlock()
	matches := make([]Match, 0, len(ix.docs))
	for _, d := range ix.docs {
		matches = append(matches, Match{Document: d, Score: cosine(qv, d.Vector)})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// LoadFile populates the index from a JSON array of Documents, the format
// the knowledge-base build tool writes.
func (ix *Index) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ontology: read index file: %w", err)
	}
	var docs []Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return fmt.Errorf("ontology: parse index file: %w", err)
	}
	for _, d := range docs {
		ix.Add(d)
	}
	return nil
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// HashingEmbedder is a bag-of-words feature-hashing embedder: every token
// bumps one dimension chosen by a string hash. Deterministic, no model
// download, good enough to rank short class labels.
type HashingEmbedder struct {
	Dimensions int
}

func (h HashingEmbedder) Embed(text string) []float64 {
	dims := h.Dimensions
	if dims <= 0 {
		dims = 256
	}
	vec := make([]float64, dims)
	for _, tok := range tokenize(text) {
		vec[fnv32(tok)%uint32(dims)]++
	}
	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}

func fnv32(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
