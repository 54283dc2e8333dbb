package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testFields() []FormField {
	return []FormField{
		{Key: "itemName", Label: "Item name", Kind: FieldText, Required: true},
		{Key: "category", Label: "Category", Kind: FieldSelect, Required: true,
			Options: []string{"FEED", "MEDICINE", "OTHER"}},
		{Key: "unitPrice", Label: "Unit price", Kind: FieldCurrency, Required: true},
		{Key: "supplyDate", Label: "Supply date", Kind: FieldDate, Required: true},
	}
}

func typeText(m FormModal, text string) FormModal {
	for _, r := range text {
		m, _ = m.Update(keyRune(r))
	}
	return m
}

func TestFormSeedRoundTrip(t *testing.T) {
	seed := map[string]string{
		"itemName":   "Layer feed",
		"category":   "MEDICINE",
		"unitPrice":  "12000",
		"supplyDate": "2026-08-12",
	}
	m := NewFormModal("Supplies", "Edit", testFields(), seed, "rec-1", DefaultStyles())

	if !m.Editing() {
		t.Fatal("a form with a record id must report editing")
	}

	values := m.Values()
	for key, want := range seed {
		if values[key] != want {
			t.Fatalf("values[%q] = %q, want %q", key, values[key], want)
		}
	}
}

func TestCurrencyFieldGroupsWhileTyping(t *testing.T) {
	m := NewFormModal("Supplies", "New", testFields(), nil, "", DefaultStyles())
	m.focusField(2) // unit price

	m = typeText(m, "12000")

	if got := m.inputs[2].Value(); got != "12,000" {
		t.Fatalf("display value = %q, want 12,000", got)
	}
	if got := m.Values()["unitPrice"]; got != "12000" {
		t.Fatalf("submitted value = %q, want raw digits", got)
	}
}

func TestCurrencySeedIsRegrouped(t *testing.T) {
	m := NewFormModal("Supplies", "Edit", testFields(), map[string]string{"unitPrice": "1234567"}, "id", DefaultStyles())
	if got := m.inputs[2].Value(); got != "1,234,567" {
		t.Fatalf("seeded display = %q", got)
	}
}

func TestSelectFieldCycles(t *testing.T) {
	m := NewFormModal("Supplies", "New", testFields(), nil, "", DefaultStyles())
	m.focusField(1) // category

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.Values()["category"]; got != "MEDICINE" {
		t.Fatalf("after right: %q", got)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.Values()["category"]; got != "OTHER" {
		t.Fatalf("cycling must wrap: %q", got)
	}
}

func TestRequiredFieldsBlockSubmit(t *testing.T) {
	m := NewFormModal("Supplies", "New", testFields(), nil, "", DefaultStyles())
	m.focusField(len(testFields()) - 1)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("submit must be blocked while required fields are empty")
	}
	if m.errText == "" {
		t.Fatal("expected a validation message")
	}
}

func TestEnterAdvancesThenSubmits(t *testing.T) {
	seed := map[string]string{
		"itemName":   "Feed",
		"unitPrice":  "500",
		"supplyDate": "2026-08-12",
	}
	m := NewFormModal("Supplies", "New", testFields(), seed, "", DefaultStyles())

	// Enter on intermediate fields only moves focus.
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.focus != 1 {
		t.Fatalf("enter should advance focus, got focus=%d cmd=%v", m.focus, cmd)
	}

	m.focusField(len(testFields()) - 1)
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	submit, ok := cmd().(formSubmitMsg)
	if !ok {
		t.Fatalf("expected formSubmitMsg, got %T", cmd())
	}
	if submit.resource != "Supplies" || submit.recordID != "" {
		t.Fatalf("unexpected submit: %+v", submit)
	}
	if submit.values["category"] != "FEED" {
		t.Fatalf("select default not submitted: %+v", submit.values)
	}
}

func TestEscCancels(t *testing.T) {
	m := NewFormModal("Supplies", "New", testFields(), nil, "", DefaultStyles())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a cancel command")
	}
	if _, ok := cmd().(formCancelMsg); !ok {
		t.Fatalf("expected formCancelMsg, got %T", cmd())
	}
}
