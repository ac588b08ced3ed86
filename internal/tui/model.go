package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dirsweep/dirsweep/internal/report"
	"github.com/dirsweep/dirsweep/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(1, 4)

	cleanStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dirtyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const defaultHelp = "q: quit | /: search | s: sort | g: group | o: reveal | d: delete | y/Y: copy | t: git | r: rescan"

// Revealer opens a path in the platform file manager.
type Revealer interface {
	Reveal(path string) (bool, error)
}

// Deleter removes a path and reports the outcome.
type Deleter interface {
	Delete(path string) types.DeleteResult
}

// Prober reports the repository status of a directory.
type Prober interface {
	Status(ctx context.Context, dir string) types.RepoStatus
}

// statusCache is implemented by probers that memoize results. The browser
// invalidates it whenever the tree may have changed.
type statusCache interface {
	Forget(dir string)
	Purge()
}

// Options wires the browser to its collaborators. Nil collaborators disable
// the matching key.
type Options struct {
	Root     string
	Results  []string
	Rescan   func() ([]string, error)
	Revealer Revealer
	Deleter  Deleter
	Prober   Prober
	Copy     func(text string) error
	// CachedAt marks Results as a stored snapshot taken at that time.
	CachedAt time.Time
}

// Model is the bubbletea state of the result browser.
type Model struct {
	opts     Options
	table    table.Model
	viewport viewport.Model
	spinner  spinner.Model

	results []string
	view    report.View
	// visible maps table rows to absolute paths.
	visible []string

	order report.SortOrder
	group report.GroupBy

	searchMode  bool
	searchInput textinput.Model
	searchQuery string

	confirmDelete string
	repoStatus    map[string]types.RepoStatus

	ready         bool
	quitting      bool
	scanning      bool
	showHelp      bool
	viewingCached bool
	lastScanTime  time.Time
	width         int
	height        int
	statusMessage string
	statusTimeout *time.Time
}

// NewModel initializes the browser over opts.Results.
func NewModel(opts Options) Model {
	columns := []table.Column{
		{Title: "Group", Width: 20},
		{Title: "Path", Width: 60},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Placeholder = "Filter paths..."
	ti.CharLimit = 200
	ti.Width = 50
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := Model{
		opts:          opts,
		table:         t,
		viewport:      viewport.New(80, 10),
		spinner:       sp,
		searchInput:   ti,
		results:       slices.Clone(opts.Results),
		group:         report.GroupNone,
		repoStatus:    map[string]types.RepoStatus{},
		statusMessage: defaultHelp,
		lastScanTime:  time.Now(),
	}
	if !opts.CachedAt.IsZero() {
		m.viewingCached = true
		m.lastScanTime = opts.CachedAt
	}
	m.rebuild()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// rebuild recomputes the view from results and the current search, sort and
// grouping, keeping the cursor on the same path when it is still shown.
func (m *Model) rebuild() {
	prev := m.selectedPath()
	m.view = report.Build(m.opts.Root, m.results, m.searchQuery, m.order, m.group)

	rows := make([]table.Row, 0, m.view.Count)
	visible := make([]string, 0, m.view.Count)
	for _, g := range m.view.Groups {
		for _, p := range g.Paths {
			rows = append(rows, table.Row{g.Label, report.Relative(m.opts.Root, p)})
			visible = append(visible, p)
		}
	}
	m.visible = visible
	m.table.SetRows(rows)

	cursor := 0
	if i := slices.Index(m.visible, prev); i >= 0 {
		cursor = i
	}
	m.table.SetCursor(cursor)
	m.updateViewportContent()
}

func (m Model) selectedPath() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return ""
	}
	return m.visible[i]
}

func (m *Model) setStatus(msg string, d time.Duration) {
	timeout := time.Now().Add(d)
	m.statusTimeout = &timeout
	m.statusMessage = msg
}

func (m *Model) cycleSort() {
	i := slices.Index(report.SortOrders, m.order)
	m.order = report.SortOrders[(i+1)%len(report.SortOrders)]
	m.rebuild()
}

func (m *Model) cycleGroup() {
	i := slices.Index(report.GroupModes, m.group)
	m.group = report.GroupModes[(i+1)%len(report.GroupModes)]
	m.rebuild()
}

func sortLabel(o report.SortOrder) string {
	if o == report.SortNone {
		return "found"
	}
	return string(o)
}

func (m Model) forgetStatus(dir string) {
	if c, ok := m.opts.Prober.(statusCache); ok {
		c.Forget(dir)
	}
}

func (m *Model) removeResult(path string) {
	m.results = slices.DeleteFunc(m.results, func(p string) bool { return p == path })
	delete(m.repoStatus, path)
	m.rebuild()
}

func (m *Model) updateViewportContent() {
	p := m.selectedPath()
	if p == "" {
		m.viewport.SetContent("")
		return
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(p))
	b.WriteString("\n")
	if st, ok := m.repoStatus[p]; ok {
		b.WriteString(formatRepoStatus(st))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(preview(p, m.viewport.Height))
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
}

func formatRepoStatus(st types.RepoStatus) string {
	if !st.OK {
		return errStyle.Render("git: " + st.Error)
	}
	state := cleanStyle.Render("git: clean")
	if st.Dirty {
		state = dirtyStyle.Render("git: dirty")
	}
	if st.HasRemote {
		return state + fmt.Sprintf("  remote: %s", st.RemoteHost)
	}
	return state + "  no remote"
}

type resultsMsg []string

type statusMsg string

type deletedMsg types.DeleteResult

type repoStatusMsg struct {
	dir    string
	status types.RepoStatus
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if m.confirmDelete != "" {
			switch msg.String() {
			case "y", "Y":
				path := m.confirmDelete
				m.confirmDelete = ""
				return m, m.deletePath(path)
			default:
				m.confirmDelete = ""
				m.setStatus("Delete cancelled", 3*time.Second)
			}
			return m, nil
		}

		if m.searchMode {
			switch msg.String() {
			case "enter":
				m.searchMode = false
				m.searchInput.Blur()
				return m, nil
			case "esc":
				m.searchMode = false
				m.searchInput.Blur()
				m.searchQuery = ""
				m.rebuild()
				return m, nil
			}
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.searchQuery = m.searchInput.Value()
			m.rebuild()
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "?", "h":
			m.showHelp = true
			return m, nil
		case "/":
			m.searchMode = true
			m.searchInput.SetValue(m.searchQuery)
			m.searchInput.Focus()
			return m, textinput.Blink
		case "esc":
			if m.searchQuery != "" {
				m.searchQuery = ""
				m.searchInput.SetValue("")
				m.rebuild()
				m.setStatus("Filter cleared", 3*time.Second)
			}
			return m, nil
		case "s":
			m.cycleSort()
			m.setStatus("Sort: "+sortLabel(m.order), 3*time.Second)
			return m, nil
		case "g":
			m.cycleGroup()
			m.setStatus("Group: "+string(m.group), 3*time.Second)
			return m, nil
		case "o", "enter":
			return m, m.revealSelected()
		case "d", "x":
			p := m.selectedPath()
			if p == "" {
				return m, nil
			}
			if m.opts.Deleter == nil {
				m.setStatus("Delete not available", 3*time.Second)
				return m, nil
			}
			m.confirmDelete = p
			return m, nil
		case "y":
			return m, m.copySelected()
		case "Y":
			return m, m.copyVisible()
		case "t":
			return m, m.probeSelected()
		case "r":
			if m.opts.Rescan == nil {
				m.setStatus("Rescan not available", 3*time.Second)
				return m, nil
			}
			m.scanning = true
			return m, tea.Batch(m.spinner.Tick, m.rescan())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		groupWidth := 20
		pathWidth := max(m.width-groupWidth-8, 30)
		cols := m.table.Columns()
		cols[0].Width = groupWidth
		cols[1].Width = pathWidth
		m.table.SetColumns(cols)

		available := m.height - 2
		tableHeight := max(int(float64(available)*0.55), 3)
		viewportHeight := max(available-tableHeight-detailPaneBorderStyle.GetVerticalFrameSize()-tableBorderStyle.GetVerticalFrameSize(), 1)
		m.table.SetWidth(m.width)
		m.table.SetHeight(tableHeight)
		m.viewport.Width = m.width
		m.viewport.Height = viewportHeight
		m.updateViewportContent()
		statusStyle = statusStyle.Width(m.width)
		return m, nil

	case resultsMsg:
		m.results = []string(msg)
		m.scanning = false
		m.viewingCached = false
		m.lastScanTime = time.Now()
		m.repoStatus = map[string]types.RepoStatus{}
		if c, ok := m.opts.Prober.(statusCache); ok {
			c.Purge()
		}
		m.rebuild()
		m.setStatus(fmt.Sprintf("Rescan complete - %d matches", len(m.results)), 5*time.Second)
		return m, nil

	case deletedMsg:
		if msg.OK {
			m.forgetStatus(msg.Path)
			m.removeResult(msg.Path)
			m.setStatus("Deleted: "+msg.Path, 5*time.Second)
		} else {
			m.setStatus(fmt.Sprintf("Delete failed: %s", msg.Error), 5*time.Second)
		}
		return m, nil

	case repoStatusMsg:
		m.repoStatus[msg.dir] = msg.status
		m.updateViewportContent()
		return m, nil

	case statusMsg:
		m.scanning = false
		m.setStatus(string(msg), 3*time.Second)
		return m, nil

	case spinner.TickMsg:
		var spinCmd tea.Cmd
		m.spinner, spinCmd = m.spinner.Update(msg)
		if m.statusTimeout != nil && time.Now().After(*m.statusTimeout) {
			m.statusTimeout = nil
			m.statusMessage = defaultHelp
		}
		return m, spinCmd
	}

	prev := m.table.Cursor()
	m.table, cmd = m.table.Update(msg)
	if m.table.Cursor() != prev {
		m.updateViewportContent()
	}
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	if m.scanning {
		box := popupStyle.Width(40).Align(lipgloss.Center).
			Render(fmt.Sprintf("%s  Scanning...\n\nPlease wait", m.spinner.View()))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupStyle.Render(helpText))
	}

	stats := fmt.Sprintf("Matches: %d/%d  |  sort: %s  |  group: %s", m.view.Count, len(m.results), sortLabel(m.order), m.group)
	if m.searchQuery != "" {
		stats += fmt.Sprintf("  [FILTER: '%s']", m.searchQuery)
	}
	if m.viewingCached {
		stats += "  [cached " + formatAge(time.Since(m.lastScanTime)) + " ago]"
	}
	header := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 2).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("237")).
		Render(stats)

	tableRender := tableBorderStyle.Width(m.width - 2).Render(m.table.View())

	var detail string
	if len(m.visible) == 0 {
		msg := "No matches.\n\nPress 'r' to rescan"
		if len(m.results) > 0 {
			msg = "No paths match the filter.\n\nPress 'Esc' to clear"
		}
		detail = lipgloss.Place(m.width-2, m.viewport.Height, lipgloss.Center, lipgloss.Center, emptyTextStyle.Render(msg))
	} else {
		detail = m.viewport.View()
	}
	detailRender := detailPaneBorderStyle.Width(m.width - 2).Render(detail)

	var bottom string
	switch {
	case m.searchMode:
		bottom = m.searchInput.View()
	case m.confirmDelete != "":
		bottom = errStyle.Render(fmt.Sprintf("Delete %s? (y/n)", m.confirmDelete))
	default:
		bottom = statusStyle.Render(m.statusMessage)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tableRender, detailRender, bottom)
}

const helpText = `Keys

  j/k, arrows   move
  /             filter paths
  esc           clear filter
  s             cycle sort (found, az, za, lenAsc, lenDesc)
  g             cycle grouping (none, target, parent, top)
  o, enter      reveal in file manager
  d             delete (asks y/n)
  y             copy selected path
  Y             copy all visible paths
  t             git status of selected directory
  r             rescan
  q             quit`

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
