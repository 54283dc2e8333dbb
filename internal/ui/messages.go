package ui

import (
	"time"

	"github.com/mamadbah2/farmdesk/internal/domain/models"
)

// requestTimeout bounds every command-issued API call. It sits above the
// HTTP client's own timeout so transport errors surface first.
const requestTimeout = 20 * time.Second

// List page messages. Every fetch carries the sequence number it was issued
// with; responses older than the latest issued sequence are discarded.
type listLoadedMsg struct {
	resource string
	seq      uint64
	page     RowPage
}

type listFailedMsg struct {
	resource string
	seq      uint64
	err      error
}

type summaryLoadedMsg struct {
	resource string
	summary  models.Summary
	err      error
}

// Mutation outcomes. Successful mutations splice the returned row into the
// local collection without a re-fetch.
type createdMsg struct {
	resource string
	row      Row
}

type updatedMsg struct {
	resource string
	row      Row
}

type deletedMsg struct {
	resource string
	id       string
}

type mutationFailedMsg struct {
	resource string
	err      error
}

// Trash view messages.
type trashLoadedMsg struct {
	resource string
	seq      uint64
	page     RowPage
}

type trashFailedMsg struct {
	resource string
	seq      uint64
	err      error
}

type trashActionDoneMsg struct {
	resource string
	action   trashAction
	id       string
	err      error
}

// Export outcome.
type exportDoneMsg struct {
	path string
	err  error
}

// Search overlay messages.
type searchTickMsg struct{ seq int }

type searchResultsMsg struct {
	seq     int
	results []SearchResult
}

// selectSearchMsg asks the app to jump to a resource page with the query
// applied as its search filter.
type selectSearchMsg struct {
	resource string
	query    string
}

// App-level messages.
type feedUpdatedMsg struct{ items []models.Notification }

type stateChangedMsg struct{}

type sessionExpiredMsg struct{}

type loginDoneMsg struct {
	session models.Session
	err     error
}

type markReadDoneMsg struct {
	id  string
	err error
}
