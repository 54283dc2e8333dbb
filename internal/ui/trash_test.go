package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mamadbah2/farmdesk/internal/api"
)

func newTestTrash(res *stubResource) *TrashModal {
	modal := NewTrashModal(res, 3, DefaultStyles())
	for _, msg := range collect(modal.Open()) {
		modal.Update(msg)
	}
	return modal
}

func TestTrashOpenFetchesDeletedRecords(t *testing.T) {
	res := &stubResource{name: "Supplies", page: RowPage{Rows: []Row{stubRow("a", "Feed")}, TotalPages: 1}}
	modal := newTestTrash(res)

	if !res.queries[0].Deleted {
		t.Fatal("trash must list with deleted=true")
	}
	if len(modal.rows) != 1 {
		t.Fatalf("rows = %+v", modal.rows)
	}
}

func TestPermanentDeleteNeedsConfirmation(t *testing.T) {
	res := &stubResource{name: "Supplies", page: RowPage{Rows: []Row{stubRow("a", "Feed")}, TotalPages: 1}}
	modal := newTestTrash(res)

	modal.Update(keyRune('d'))
	if modal.confirm == nil || modal.confirm.action != trashDelete {
		t.Fatal("d must arm the delete confirmation")
	}
	if view := modal.View(); !strings.Contains(view, "cannot be undone") {
		t.Fatal("permanent delete confirmation must warn about irreversibility")
	}

	// n backs out without touching the record.
	modal.Update(keyRune('n'))
	if modal.confirm != nil {
		t.Fatal("n must cancel the confirmation")
	}
	if len(modal.rows) != 1 {
		t.Fatal("cancelling must keep the row")
	}
}

func TestConfirmedDeleteRemovesRow(t *testing.T) {
	res := &stubResource{name: "Supplies", page: RowPage{Rows: []Row{stubRow("a", "Feed"), stubRow("b", "Vitamins")}, TotalPages: 1}}
	modal := newTestTrash(res)

	modal.Update(keyRune('d'))
	cmd, _ := modal.Update(keyRune('y'))
	for _, msg := range collect(cmd) {
		modal.Update(msg)
	}

	if len(modal.rows) != 1 || modal.rows[0].ID != "b" {
		t.Fatalf("row not removed after confirmed delete: %+v", modal.rows)
	}
	if modal.busy {
		t.Fatal("busy flag must reset once the action completes")
	}
}

func TestFailedRestoreKeepsRow(t *testing.T) {
	res := &stubResource{
		name:       "Supplies",
		page:       RowPage{Rows: []Row{stubRow("a", "Feed")}, TotalPages: 1},
		restoreErr: &api.Error{Status: 409, Message: "record is not in the trash"},
	}
	modal := newTestTrash(res)

	modal.Update(keyRune('r'))
	cmd, _ := modal.Update(keyRune('y'))
	for _, msg := range collect(cmd) {
		modal.Update(msg)
	}

	if len(modal.rows) != 1 {
		t.Fatal("a failed restore must leave the row listed")
	}
	if modal.confirm != nil {
		t.Fatal("confirmation must clear after the action resolves")
	}
}

func TestBusyGuardBlocksDoubleConfirm(t *testing.T) {
	res := &stubResource{name: "Supplies", page: RowPage{Rows: []Row{stubRow("a", "Feed")}, TotalPages: 1}}
	modal := newTestTrash(res)

	modal.Update(keyRune('d'))
	first, _ := modal.Update(keyRune('y'))
	second, _ := modal.Update(keyRune('y'))

	if first == nil {
		t.Fatal("first confirm must issue the action")
	}
	if second != nil {
		t.Fatal("second confirm while busy must be ignored")
	}
}

func TestEscClosesTrash(t *testing.T) {
	res := &stubResource{name: "Supplies"}
	modal := newTestTrash(res)

	cmd, closed := modal.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !closed {
		t.Fatal("esc must close the modal")
	}
	msg, ok := cmd().(trashClosedMsg)
	if !ok || msg.resource != "Supplies" {
		t.Fatalf("expected trashClosedMsg for Supplies, got %#v", msg)
	}
}
