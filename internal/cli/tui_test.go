package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/treeflow/pkg/graph"
	"github.com/matzehuels/treeflow/pkg/tree"
)

func inspectGraph() *graph.Graph {
	price := 5.0
	return graph.New([]graph.Node{
		{ID: "r", Type: tree.TypeRoot, Label: "Start", ChildIDs: []string{"c1", "c2"}},
		{ID: "c1", Type: tree.TypeLeaf, Depth: 1, Label: "A", Price: &price},
		{ID: "c2", Type: tree.TypeLeaf, Depth: 1, Label: "B", Badge: "NEW"},
	}, []graph.Edge{{Source: "r", Target: "c1"}, {Source: "r", Target: "c2"}})
}

func press(m InspectModel, keys ...tea.KeyMsg) InspectModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(InspectModel)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestInspectModelNavigation(t *testing.T) {
	m := NewInspectModel(inspectGraph(), "")

	m = press(m, keyUp)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up at top, want 0", m.Cursor)
	}
	m = press(m, keyDown, keyDown, keyDown)
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d after moving past the end, want 2", m.Cursor)
	}
}

func TestInspectModelStates(t *testing.T) {
	m := NewInspectModel(inspectGraph(), "")

	// Select c1, then hover c2.
	m = press(m, keyDown, keySpace, keyDown)
	got := m.States()
	want := map[string]string{"c1": "selected", "c2": "hover"}
	if len(got) != len(want) {
		t.Fatalf("States() = %v, want %v", got, want)
	}
	for id, st := range want {
		if got[id] != st {
			t.Errorf("States()[%s] = %q, want %q", id, got[id], st)
		}
	}

	// Selection wins over hover on the same node.
	m = press(m, keyUp)
	if st := m.States()["c1"]; st != "selected" {
		t.Errorf("c1 = %q, want selected", st)
	}

	// Space again clears the selection.
	m = press(m, keySpace)
	if st := m.States()["c1"]; st != "hover" {
		t.Errorf("c1 = %q after toggle, want hover", st)
	}
}

func TestInspectModelConfirm(t *testing.T) {
	m := NewInspectModel(inspectGraph(), "")
	next, cmd := m.Update(keyEnter)
	if !next.(InspectModel).Confirmed {
		t.Error("enter should confirm")
	}
	if cmd == nil {
		t.Error("enter should quit")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if next.(InspectModel).Confirmed {
		t.Error("q should not confirm")
	}
}

func TestInspectModelView(t *testing.T) {
	m := NewInspectModel(inspectGraph(), "")
	m = press(m, keyDown, keySpace)
	view := m.View()
	for _, want := range []string{"Inspect Tree", "Start", "R$ 5.00", "NEW", "[2/3] 1 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestInspectModelEmpty(t *testing.T) {
	m := NewInspectModel(graph.New(nil, nil), "")
	m = press(m, keyDown, keySpace)
	if len(m.States()) != 0 {
		t.Errorf("States() = %v, want empty", m.States())
	}
}
