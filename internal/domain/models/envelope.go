package models

import "encoding/json"

// Envelope is the canonical response shape of the backend API. Every JSON
// endpoint wraps its payload in it; callers unwrap Data and never inspect
// Success directly (a false Success is surfaced as an error by the client).
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Page is one page of a list endpoint. Page numbering is zero-indexed;
// HasNext/HasPrevious are trusted from the server, not recomputed.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Page        int  `json:"page"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

// Summary holds the aggregate counters shown on dashboard cards.
type Summary struct {
	Today float64 `json:"today"`
	Month float64 `json:"month"`
	Total float64 `json:"total"`
}
