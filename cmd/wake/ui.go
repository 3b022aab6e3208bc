// # cmd/wake/ui.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wake/internal/core/app"
	"wake/internal/engine/report"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	unusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	syntaxStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list         list.Model
	root         string
	counts       report.Counts
	syntaxErrors int
	fileCount    int
	importCount  int
	lastUpdate   time.Time
}

type resultMsg struct {
	result *report.Result
	at     time.Time
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || (msg.String() == "q" && m.list.FilterState() != list.Filtering) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case resultMsg:
		r := msg.result
		m.counts = r.Counts()
		m.syntaxErrors = len(r.SyntaxErrors())
		m.fileCount = len(r.Files())
		m.importCount = len(r.ImportPaths())
		m.lastUpdate = msg.at

		unused := r.Unused()
		items := make([]list.Item, 0, len(unused))
		for _, occ := range unused {
			items = append(items, item{
				title: fmt.Sprintf("Unused %s '%s'", occ.Kind, occ.Name),
				desc:  fmt.Sprintf("%s:%d", displayPath(m.root, occ.File), occ.Line),
			})
		}
		return m, m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %s | %d files | %d via imports",
		m.lastUpdate.Format("15:04:05"), m.fileCount, m.importCount))

	var summary string
	if m.counts.Total == 0 && m.syntaxErrors == 0 {
		summary = successStyle.Render("No dead code")
	} else {
		summary = fmt.Sprintf("%s | %s",
			unusedStyle.Render(fmt.Sprintf("%d unused (%d func, %d prop, %d var, %d attr)",
				m.counts.Total, m.counts.Functions, m.counts.Properties, m.counts.Variables, m.counts.Attributes)),
			syntaxStyle.Render(fmt.Sprintf("%d syntax errors", m.syntaxErrors)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Wake Dead Code Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel(root string) model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Unused Symbols"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		root:       root,
		lastUpdate: time.Now(),
	}
}

func displayPath(root, path string) string {
	if root == "" {
		return path
	}
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

// runDashboard drives watch mode behind the terminal UI until the user
// quits or ctx is cancelled.
func runDashboard(ctx context.Context, a *app.App, paths []string, configPath string, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	root, _ := os.Getwd()
	p := tea.NewProgram(initialModel(root), tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))

	done := make(chan error, 1)
	go func() {
		done <- a.Watch(ctx, paths, app.WatchOptions{
			ConfigPath: configPath,
			OnResult: func(r *report.Result) {
				p.Send(resultMsg{result: r, at: time.Now()})
			},
		})
	}()

	_, err := p.Run()
	cancel()
	watchErr := <-done
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return watchErr
}

// resolveLogPath picks where logs go while the terminal UI owns the screen.
func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "wake", "wake.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "wake", "wake.log")
	}

	return "wake.log"
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	if fi, err := os.Lstat(path); err == nil && fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("refusing to write logs to symlink path %s", path)
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
}
