package main

import (
	"strings"
	"testing"
	"time"

	"wake/internal/engine/report"
	"wake/internal/engine/symbols"

	tea "github.com/charmbracelet/bubbletea"
)

type stubSource struct {
	acc *symbols.Accumulators
}

func (s stubSource) Accumulators() *symbols.Accumulators { return s.acc }
func (s stubSource) ImportPaths() []string               { return []string{"/proj/lib.py"} }
func (s stubSource) Files() []string                     { return []string{"/proj/main.py", "/proj/lib.py"} }
func (s stubSource) SyntaxErrors() []string              { return nil }

func TestModelShowsScanResult(t *testing.T) {
	acc := symbols.NewAccumulators(nil)
	acc.DefinedFuncs = []symbols.Occurrence{
		{Name: "dead", Kind: symbols.KindFunction, File: "/proj/lib.py", Line: 3},
		{Name: "alive", Kind: symbols.KindFunction, File: "/proj/lib.py", Line: 7},
	}
	acc.UsedFuncs = []string{"alive"}
	result := report.Analyze(stubSource{acc: acc})

	var m tea.Model = initialModel("/proj")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(resultMsg{result: result, at: time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)})

	got := m.(model)
	if got.counts.Total != 1 || got.fileCount != 2 || got.importCount != 1 {
		t.Fatalf("unexpected model state: %+v", got.counts)
	}
	items := got.list.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if it := items[0].(item); it.title != "Unused function 'dead'" || it.desc != "lib.py:3" {
		t.Errorf("unexpected item: %+v", it)
	}

	view := got.View()
	for _, want := range []string{"Wake Dead Code Monitor", "15:04:05", "1 unused"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelQuit(t *testing.T) {
	m := initialModel("")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestDisplayPath(t *testing.T) {
	if got := displayPath("/proj", "/proj/pkg/a.py"); got != "pkg/a.py" {
		t.Errorf("displayPath inside root = %q", got)
	}
	if got := displayPath("/proj", "/other/a.py"); got != "/other/a.py" {
		t.Errorf("displayPath outside root = %q", got)
	}
}
