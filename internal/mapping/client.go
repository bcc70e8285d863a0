// Package mapping asks a language model to map extracted tables onto
// schema.org classes and properties, in batches. The model behind the
// client is an interface; the shipped implementation is a deterministic
// mock so the pipeline runs offline.
package mapping

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// TableShape is the input the mapper sees for one table.
type TableShape struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// ColumnMapping is one suggested column-to-property assignment.
type ColumnMapping struct {
	OriginalName   string  `json:"original_name"`
	SchemaProperty string  `json:"schema_property"`
	Confidence     float64 `json:"confidence"`
	Reason         string  `json:"reason,omitempty"`
}

// TableMapping is the model's suggestion for one table.
type TableMapping struct {
	OriginalTable   string          `json:"original_table"`
	SchemaClass     string          `json:"schema_class"`
	Rationale       string          `json:"rationale"`
	ConfidenceScore float64         `json:"confidence_score"`
	SearchKeywords  []string        `json:"search_keywords,omitempty"`
	Mappings        []ColumnMapping `json:"mappings"`
}

// Model generates a completion for a system/user prompt pair.
type Model interface {
	Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Client batches tables into a single prompt and parses the model's JSON
// reply into TableMappings.
type Client struct {
	Model  Model
	Logger logrus.FieldLogger
}

// NewClient returns a client over the given model; a nil model selects the
// built-in mock.
func NewClient(model Model) *Client {
	if model == nil {
		model = MockModel{}
	}
	return &Client{Model: model, Logger: logrus.StandardLogger()}
}

const systemPrompt = `You map relational tables onto schema.org classes and properties.
Answer with a JSON array, one object per input table, and nothing else.`

// MapBatch sends every table shape in one request and returns a mapping
// per table. The model's reply may be wrapped in code fences or prose;
// only the outermost JSON array is parsed.
func (c *Client) MapBatch(ctx context.Context, tables []TableShape) ([]TableMapping, error) {
	if len(tables) == 0 {
		return nil, nil
	}
	payload, err := json.MarshalIndent(tables, "", "  ")
	if err != nil {
		return nil, err
	}
	userPrompt := "INPUT BATCH TABLES:\n" + string(payload)

	reply, err := c.Model.Invoke(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("mapping: model invocation: %w", err)
	}

	mappings, err := parseReply(reply)
	if err != nil {
		return nil, err
	}
	if c.Logger != nil {
		c.Logger.WithFields(logrus.Fields{"tables": len(tables), "mappings": len(mappings)}).
			Debug("batch mapping complete")
	}
	return mappings, nil
}

// parseReply decodes the reply text from its first '[' to its last ']'
// as a JSON array. Models often pad the array with fences or commentary.
func parseReply(reply string) ([]TableMapping, error) {
	start := strings.IndexByte(reply, '[')
	end := strings.LastIndexByte(reply, ']')
	if start == -1 || end <= start {
		return nil, fmt.Errorf("mapping: no JSON array in model reply: %q", truncate(reply, 120))
	}
	var mappings []TableMapping
	if err := json.Unmarshal([]byte(reply[start:end+1]), &mappings); err != nil {
		return nil, fmt.Errorf("mapping: decode model reply: %w", err)
	}
	return mappings, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
