package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// QueryRequest asks the agent a question, optionally scoped to one field.
type QueryRequest struct {
	Query string `json:"query" validate:"required"`
	Field string `json:"field,omitempty" validate:"omitempty,category"`
}

// QueryResponse is the agent's answer.
type QueryResponse struct {
	QueryID          string   `json:"query_id,omitempty"`
	Query            string   `json:"query"`
	Response         string   `json:"response"`
	Sources          []Source `json:"sources"`
	Field            string   `json:"field,omitempty"`
	AgentsConsulted  []string `json:"agents_consulted,omitempty"`
	ProcessingTimeMS float64  `json:"processing_time_ms,omitempty"`
}

// Source is a piece of archive content the answer drew on. The gateway
// sends either a bare string or an object.
type Source struct {
	ID      string  `json:"id,omitempty"`
	Title   string  `json:"title,omitempty"`
	Content string  `json:"content,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Source) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = Source{Title: text}
		return nil
	}

	type plain Source
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("source must be a string or object: %w", err)
	}
	*s = Source(p)
	return nil
}

// String renders the source for display.
func (s Source) String() string {
	label := s.Title
	if label == "" {
		label = s.ID
	}
	if label == "" {
		label = s.Content
		if len(label) > 60 {
			label = label[:57] + "..."
		}
	}
	if s.Score > 0 {
		return fmt.Sprintf("%s (%.2f)", label, s.Score)
	}
	return label
}
