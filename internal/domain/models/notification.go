package models

// Notification is one entry of the user's notification feed. The same shape
// arrives from the poll endpoint and from the push stream; entries are
// deduplicated by ID when the two sources are merged.
type Notification struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Read  bool   `json:"read"`
}
