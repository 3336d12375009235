package api

import (
	"bytes"
	"encoding/json"
)

// Page decodes a collection endpoint that may answer either a bare JSON
// array or the paginated {count,next,previous,results} envelope.
// Paginated reports which form was received.
type Page[T any] struct {
	Count     int
	Next      string
	Previous  string
	Results   []T
	Paginated bool
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		p.Paginated = false
		return json.Unmarshal(data, &p.Results)
	}

	var env struct {
		Count    int     `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  []T     `json:"results"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	p.Paginated = true
	p.Count = env.Count
	if env.Next != nil {
		p.Next = *env.Next
	}
	if env.Previous != nil {
		p.Previous = *env.Previous
	}
	p.Results = env.Results
	return nil
}
