package domain

import "strings"

// Product is a catalog item indexed by the vector store.
type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	Price       float64           `json:"price,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Document returns the text that gets embedded for the product.
func (p Product) Document() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Name, p.Category, p.Description} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ". ")
}

// SearchHit is a raw vector-store match before relevance scoring.
type SearchHit struct {
	ID       string
	Document string
	Metadata map[string]any
	Distance *float64
}

// SearchCandidate is a scored vector-store match.
type SearchCandidate struct {
	ID        string         `json:"id"`
	Document  string         `json:"document"`
	Metadata  map[string]any `json:"metadata"`
	Distance  *float64       `json:"distance"`
	Relevance float64        `json:"relevance"`
}
