package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amd-chrissosa/SHARK-Platform/internal/system"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7B68EE")).
			MarginBottom(1)

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)
)

type tickMsg time.Time

// MonitorModel is an auto-refreshing dashboard over the devices of one
// system: queue depth, retirement progress and arena usage per device.
type MonitorModel struct {
	sys      *system.System
	table    table.Model
	interval time.Duration
	updated  time.Time
	width    int
	height   int
	ready    bool
}

// NewMonitorModel creates a monitor refreshing at the given interval.
func NewMonitorModel(sys *system.System, interval time.Duration) MonitorModel {
	if interval <= 0 {
		interval = time.Second
	}

	columns := []table.Column{
		{Title: "Device", Width: 10},
		{Title: "Pending", Width: 9},
		{Title: "Submitted", Width: 11},
		{Title: "Retired", Width: 11},
		{Title: "Host Memory", Width: 22},
		{Title: "Device Memory", Width: 22},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(sys.DeviceCount()+1),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = selectedStyle
	t.SetStyles(styles)

	m := MonitorModel{
		sys:      sys,
		table:    t,
		interval: interval,
	}
	m.refresh()
	return m
}

func (m MonitorModel) Init() tea.Cmd {
	return m.tick()
}

func (m MonitorModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tickMsg:
		m.refresh()
		m.updated = time.Time(msg)
		return m, m.tick()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m MonitorModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var sb strings.Builder

	title := fmt.Sprintf("Device Monitor - %d device(s)", m.sys.DeviceCount())
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")

	sb.WriteString(borderStyle.Render(m.table.View()))
	sb.WriteString("\n\n")

	if !m.updated.IsZero() {
		sb.WriteString(helpStyle.Render(fmt.Sprintf("Updated %s", m.updated.Format("15:04:05"))))
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render("q: Quit | ↑/↓: Select device"))

	return sb.String()
}

// refresh rebuilds the table rows from a fresh stats snapshot.
func (m *MonitorModel) refresh() {
	stats := m.sys.Stats()
	rows := make([]table.Row, len(stats))
	for i, st := range stats {
		rows[i] = table.Row{
			st.Name,
			fmt.Sprintf("%d", st.Pending),
			fmt.Sprintf("%d", st.Submitted),
			fmt.Sprintf("%d", st.Retired),
			formatArena(st.HostUsed, st.HostCapacity),
			formatArena(st.DeviceUsed, st.DeviceCapacity),
		}
	}
	m.table.SetRows(rows)
}

// formatArena renders arena usage as "used / capacity"; an unbounded
// arena shows only its usage.
func formatArena(used, capacity int64) string {
	if capacity <= 0 {
		return system.FormatBytes(used)
	}
	return fmt.Sprintf("%s / %s", system.FormatBytes(used), system.FormatBytes(capacity))
}

// Rows returns the current table rows.
func (m MonitorModel) Rows() []table.Row {
	return m.table.Rows()
}
