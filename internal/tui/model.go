// Package tui implements the interactive table browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tordrt/merlindb/internal/provider"
	"github.com/tordrt/merlindb/internal/schema"
)

const (
	minListWidth = 16
	maxListWidth = 32
	minGridRows  = 3
)

type focusArea int

const (
	focusTables focusArea = iota
	focusGrid
)

// Options configures the browser.
type Options struct {
	// Source is shown in the header.
	Source string
	// Mode is the initial browsing mode. Empty means raw.
	Mode string
	// Validate normalizes raw tables against their registered schema.
	Validate bool
}

type tablesLoadedMsg struct {
	mode  int
	names []string
	err   error
}

type tableLoadedMsg struct {
	mode  int
	name  string
	table *schema.Table
	err   error
}

// Model is the browser state.
type Model struct {
	ctx       context.Context
	source    string
	providers []provider.Provider
	mode      int

	tables  []string
	cursor  int
	current string
	data    *schema.Table
	rows    [][]string
	shown   int

	grid      table.Model
	search    textinput.Model
	searching bool
	focus     focusArea
	help      help.Model
	keys      keyMap

	loading   bool
	status    string
	err       error
	width     int
	height    int
	listWidth int
}

// New builds a browser over c. It fails on an unknown mode.
func New(ctx context.Context, c provider.Catalog, opts Options) (Model, error) {
	modes := provider.Modes()
	providers := make([]provider.Provider, len(modes))
	for i, mode := range modes {
		p, err := provider.New(mode, c, opts.Validate)
		if err != nil {
			return Model{}, err
		}
		providers[i] = p
	}

	start := -1
	want := strings.ToLower(opts.Mode)
	if want == "" {
		want = provider.ModeRaw
	}
	for i, mode := range modes {
		if mode == want {
			start = i
		}
	}
	if start < 0 {
		return Model{}, fmt.Errorf("unsupported mode: %s. Available modes: %s", opts.Mode, strings.Join(modes, ", "))
	}

	t := table.New(
		table.WithColumns([]table.Column{}),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(primaryColor).
		BorderBottom(true).
		Bold(true).
		Foreground(primaryColor)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(secondaryColor).
		Bold(false)
	t.SetStyles(s)

	in := textinput.New()
	in.Prompt = "Search: "
	in.Placeholder = "filter rows (f)"
	in.CharLimit = 200
	in.PromptStyle = labelStyle
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(mutedColor)

	return Model{
		ctx:       ctx,
		source:    opts.Source,
		providers: providers,
		mode:      start,
		grid:      t,
		search:    in,
		help:      help.New(),
		keys:      keys,
		loading:   true,
		listWidth: minListWidth,
	}, nil
}

// Run starts the browser on the terminal and blocks until it exits.
func Run(ctx context.Context, c provider.Catalog, opts Options) error {
	m, err := New(ctx, c, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.loadTables()
}

func (m Model) active() provider.Provider {
	return m.providers[m.mode]
}

func (m Model) loadTables() tea.Cmd {
	ctx, p, mode := m.ctx, m.active(), m.mode
	return func() tea.Msg {
		names, err := p.ListAvailable(ctx)
		return tablesLoadedMsg{mode: mode, names: names, err: err}
	}
}

func (m Model) loadTable(name string) tea.Cmd {
	ctx, p, mode := m.ctx, m.active(), m.mode
	return func() tea.Msg {
		t, err := p.Fetch(ctx, name)
		return tableLoadedMsg{mode: mode, name: name, table: t, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tablesLoadedMsg:
		if msg.mode != m.mode {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.tables = nil
			m.setError(msg.err)
			return m, nil
		}
		m.tables = msg.names
		m.cursor = min(m.cursor, max(len(m.tables)-1, 0))
		m.err = nil
		m.status = fmt.Sprintf("%s mode: %d tables", m.active().Mode(), len(m.tables))
		m.resize()
		if m.current != "" && m.hasTable(m.current) {
			m.loading = true
			return m, m.loadTable(m.current)
		}
		return m, nil

	case tableLoadedMsg:
		if msg.mode != m.mode {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.showTable("", nil)
			m.setError(msg.err)
			return m, nil
		}
		m.showTable(msg.name, msg.table)
		m.err = nil
		m.status = fmt.Sprintf("Loaded %s (%d rows)", msg.name, msg.table.RowCount())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		m.toggleFocus()
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Clear):
		m.search.Reset()
		m.applyFilter()
		return m, nil
	}

	if m.loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextMode):
		m.mode = (m.mode + 1) % len(m.providers)
		m.tables, m.cursor = nil, 0
		m.search.Reset()
		m.showTable("", nil)
		m.loading = true
		m.status = "Loading " + m.active().Mode() + " tables..."
		return m, m.loadTables()
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.status = "Refreshing..."
		return m, m.loadTables()
	}

	if m.focus == focusGrid {
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tables)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if len(m.tables) == 0 {
			return m, nil
		}
		name := m.tables[m.cursor]
		m.loading = true
		m.status = "Loading " + name + "..."
		return m, m.loadTable(name)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.search.Reset()
		m.search.Blur()
		m.searching = false
		m.applyFilter()
		return m, nil
	case "enter":
		m.search.Blur()
		m.searching = false
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == focusTables {
		m.focus = focusGrid
		m.grid.Focus()
		return
	}
	m.focus = focusTables
	m.grid.Blur()
}

func (m *Model) setError(err error) {
	m.err = err
	m.status = err.Error()
}

func (m Model) hasTable(name string) bool {
	for _, t := range m.tables {
		if t == name {
			return true
		}
	}
	return false
}

// showTable replaces the grid contents. A nil table clears it.
func (m *Model) showTable(name string, t *schema.Table) {
	m.current, m.data, m.rows = name, t, nil
	if t != nil {
		m.rows = tableStrings(t)
	}
	m.applyFilter()
}

func (m *Model) applyFilter() {
	shown := filterRows(m.rows, m.search.Value())
	m.shown = len(shown)

	// Rows go first so the grid never renders a row against fewer columns.
	m.grid.SetRows(nil)
	if m.data != nil {
		m.grid.SetColumns(gridColumns(m.data, m.rows))
	} else {
		m.grid.SetColumns(nil)
	}
	m.grid.SetRows(gridRows(shown))
	m.grid.GotoTop()
}

func (m *Model) resize() {
	width := minListWidth
	for _, name := range m.tables {
		width = max(width, lipgloss.Width(name)+2)
	}
	m.listWidth = min(width, maxListWidth)

	if m.width == 0 || m.height == 0 {
		return
	}
	// header, modes, search, status and pane borders and title
	chrome := 8 + lipgloss.Height(m.help.View(m.keys))
	// SetHeight counts the column header, Height does not.
	m.grid.SetHeight(m.height - chrome)
	if short := minGridRows - m.grid.Height(); short > 0 {
		m.grid.SetHeight(m.height - chrome + short)
	}
	m.grid.SetWidth(max(m.width-m.listWidth-8, 10))
}

func (m Model) listHeight() int {
	if m.height == 0 {
		return 20
	}
	return max(m.grid.Height()+1, minGridRows)
}

func (m Model) View() string {
	header := titleStyle.Render("MerlinDB Browser")
	if m.source != "" {
		header += statusStyle.Render(m.source)
	}

	modes := make([]string, len(m.providers))
	for i, p := range m.providers {
		if i == m.mode {
			modes[i] = activeModeStyle.Render(p.Mode())
		} else {
			modes[i] = modeStyle.Render(p.Mode())
		}
	}
	modeBar := lipgloss.JoinHorizontal(lipgloss.Top, modes...) +
		statusStyle.Render(m.active().Description())

	listPane, gridPane := paneStyle, paneStyle
	if m.focus == focusTables {
		listPane = focusedPaneStyle
	} else {
		gridPane = focusedPaneStyle
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		listPane.Width(m.listWidth).Render(m.tableList()),
		gridPane.Render(m.gridTitle()+"\n"+m.grid.View()),
	)

	status := statusStyle.Render(m.status)
	switch {
	case m.loading:
		status = statusStyle.Render("Loading...")
	case errors.Is(m.err, provider.ErrNotImplemented):
		status = warningStyle.Render(m.status)
	case m.err != nil:
		status = errorStyle.Render("Error: " + m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		modeBar,
		body,
		" "+m.search.View(),
		status,
		" "+m.help.View(m.keys),
	)
}

func (m Model) tableList() string {
	if len(m.tables) == 0 {
		return statusStyle.Render("No tables")
	}

	height := m.listHeight()
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(start+height, len(m.tables))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		name := m.tables[i]
		if i == m.cursor {
			lines = append(lines, selectedItemStyle.Render(name))
		} else {
			lines = append(lines, itemStyle.Render(name))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) gridTitle() string {
	if m.current == "" {
		return labelStyle.Render("No table selected")
	}
	if strings.TrimSpace(m.search.Value()) != "" {
		return labelStyle.Render(m.current) + fmt.Sprintf(" (filtered: %d rows)", m.shown)
	}
	return labelStyle.Render(m.current) + fmt.Sprintf(" (%d rows)", len(m.rows))
}
