package mapping

import (
	"context"
	"encoding/json"
	"strings"
)

// MockModel is a deterministic stand-in for a hosted model: it echoes back
// one mapping per input table, guessing a class from well-known column
// names. It exists so the server and CLI work without credentials and so
// tests have stable output.
type MockModel struct{}

func (MockModel) Invoke(_ context.Context, _, userPrompt string) (string, error) {
	var tables []TableShape
	if idx := strings.IndexByte(userPrompt, '['); idx != -1 {
		_ = json.Unmarshal([]byte(userPrompt[idx:]), &tables)
	}

	mappings := make([]TableMapping, 0, len(tables))
	for _, t := range tables {
		m := TableMapping{
			OriginalTable:   t.Name,
			SchemaClass:     guessClass(t),
			Rationale:       "column-name heuristic (mock model)",
			ConfidenceScore: 0.5,
		}
		for _, col := range t.Columns {
			m.Mappings = append(m.Mappings, ColumnMapping{
				OriginalName:   col,
				SchemaProperty: guessProperty(col),
				Confidence:     0.5,
			})
		}
		mappings = append(mappings, m)
	}

	out, err := json.Marshal(mappings)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func guessClass(t TableShape) string {
	for _, col := range t.Columns {
		switch strings.ToLower(col) {
		case "firstname", "lastname", "givenname", "familyname", "birthdate":
			return "Person"
		case "sku", "price", "brand":
			return "Product"
		case "legalname", "department":
			return "Organization"
		}
	}
	return "Thing"
}

func guessProperty(col string) string {
	switch strings.ToLower(col) {
	case "firstname", "givenname":
		return "givenName"
	case "lastname", "familyname":
		return "familyName"
	case "email":
		return "email"
	case "price":
		return "price"
	case "sku":
		return "sku"
	default:
		return "name"
	}
}
