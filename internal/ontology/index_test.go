package ontology

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func seededIndex() *Index {
	ix := NewIndex(nil)
	ix.Add(Document{Label: "Person", URI: "https://schema.org/Person",
		Text: "person individual human givenName familyName birthDate"})
	ix.Add(Document{Label: "Organization", URI: "https://schema.org/Organization",
		Text: "organization company legalName employees department"})
	ix.Add(Document{Label: "Product", URI: "https://schema.org/Product",
		Text: "product sku price brand offer inventory"})
	return ix
}

func TestSearchRanksClosestFirst(t *testing.T) {
	ix := seededIndex()
	matches := ix.Search("employee person givenName familyName", 2)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Document.Label != "Person" {
		t.Errorf("top match = %q, want Person (matches: %+v)", matches[0].Document.Label, matches)
	}
	if matches[0].Score < matches[1].Score {
		t.Errorf("matches not sorted by score: %+v", matches)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	ix := seededIndex()
	if m := ix.Search("   ", 3); m != nil {
		t.Errorf("expected nil for empty query, got %+v", m)
	}
	if m := ix.Search("person", 0); m != nil {
		t.Errorf("expected nil for k=0, got %+v", m)
	}
}

func TestLoadFile(t *testing.T) {
	docs := []Document{
		{Label: "Place", URI: "https://schema.org/Place", Text: "place location address geo"},
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "kb.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	ix := NewIndex(nil)
	if err := ix.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if ix.Len() != 1 {
		t.Fatalf("Len = %d, want 1", ix.Len())
	}
	m := ix.Search("location address", 1)
	if len(m) != 1 || m[0].Document.Label != "Place" {
		t.Errorf("search after load = %+v", m)
	}
}

func TestCosineIdenticalIsOne(t *testing.T) {
	e := HashingEmbedder{Dimensions: 64}
	v := e.Embed("alpha beta gamma")
	if got := cosine(v, v); got < 0.999 {
		t.Errorf("cosine(v, v) = %f, want ~1", got)
	}
}
