package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestSearch(resources ...Resource) SearchOverlay {
	overlay := NewSearchOverlay(resources, DefaultStyles())
	overlay.Open()
	return overlay
}

func TestTypingDebouncesToOneQuery(t *testing.T) {
	supplies := &stubResource{name: "Supplies", page: RowPage{Rows: []Row{stubRow("a", "North pond feed")}}}
	overlay := newTestSearch(supplies)

	// Each keystroke schedules a tick with a fresh sequence number.
	for _, r := range "pond" {
		overlay.Update(keyRune(r))
	}
	if overlay.seq != 4 {
		t.Fatalf("seq = %d, want one bump per keystroke", overlay.seq)
	}

	// Ticks from superseded keystrokes fire first and must do nothing.
	for seq := 1; seq < 4; seq++ {
		if cmd := overlay.Update(searchTickMsg{seq: seq}); cmd != nil {
			t.Fatalf("stale tick %d issued a query", seq)
		}
	}
	if len(supplies.queries) != 0 {
		t.Fatal("no query may go out before the final tick")
	}

	cmd := overlay.Update(searchTickMsg{seq: 4})
	if cmd == nil {
		t.Fatal("the latest tick must issue the query")
	}
	overlay.Update(cmd())

	if len(supplies.queries) != 1 {
		t.Fatalf("queries = %d, want exactly one", len(supplies.queries))
	}
	if got := supplies.queries[0].Filters["search"]; got != "pond" {
		t.Fatalf("search filter = %q", got)
	}
	if len(overlay.results) != 1 {
		t.Fatalf("results = %+v", overlay.results)
	}
}

func TestShortQueriesNeverGoOut(t *testing.T) {
	supplies := &stubResource{name: "Supplies"}
	overlay := newTestSearch(supplies)

	overlay.Update(keyRune('p'))
	if cmd := overlay.Update(searchTickMsg{seq: overlay.seq}); cmd != nil {
		t.Fatal("a single-character query must not be sent")
	}
	if len(supplies.queries) != 0 {
		t.Fatal("backend was queried below the minimum length")
	}
}

func TestStaleResultsAreDropped(t *testing.T) {
	overlay := newTestSearch(&stubResource{name: "Supplies"})
	overlay.seq = 5

	overlay.Update(searchResultsMsg{seq: 3, results: []SearchResult{{Resource: "Supplies", Row: stubRow("x", "Old")}}})
	if overlay.results != nil {
		t.Fatal("results from a superseded query must be dropped")
	}
}

func TestFailingResourceDegradesToPartialResults(t *testing.T) {
	good := &stubResource{name: "Supplies", page: RowPage{Rows: []Row{stubRow("a", "Pond feed")}}}
	bad := &stubResource{name: "Sales", listErr: errors.New("unreachable")}
	overlay := newTestSearch(good, bad)

	overlay.Update(keyRune('p'))
	overlay.Update(keyRune('o'))
	cmd := overlay.Update(searchTickMsg{seq: overlay.seq})
	overlay.Update(cmd())

	if len(overlay.results) != 1 || overlay.results[0].Resource != "Supplies" {
		t.Fatalf("expected partial results from the healthy resource, got %+v", overlay.results)
	}
}

func TestEnterJumpsToResourcePage(t *testing.T) {
	supplies := &stubResource{name: "Supplies", page: RowPage{Rows: []Row{stubRow("a", "Pond feed")}}}
	overlay := newTestSearch(supplies)

	for _, r := range "pond" {
		overlay.Update(keyRune(r))
	}
	cmd := overlay.Update(searchTickMsg{seq: overlay.seq})
	overlay.Update(cmd())

	cmd = overlay.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on a result must emit a jump command")
	}
	jump, ok := cmd().(selectSearchMsg)
	if !ok {
		t.Fatalf("expected selectSearchMsg, got %T", cmd())
	}
	if jump.resource != "Supplies" || jump.query != "pond" {
		t.Fatalf("unexpected jump: %+v", jump)
	}
	if overlay.IsOpen() {
		t.Fatal("the overlay must close on selection")
	}
}

func TestEscClosesOverlay(t *testing.T) {
	overlay := newTestSearch(&stubResource{name: "Supplies"})
	overlay.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if overlay.IsOpen() {
		t.Fatal("esc must close the overlay")
	}
}
