package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	chain "github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	"github.com/fd1az/cosvm-explorer/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseStartup   Phase = "startup"   // Waiting for the first block or status
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

const (
	// WelcomeDuration is how long the welcome screen shows before auto-advancing.
	WelcomeDuration = 1500 * time.Millisecond
	// NoticeDuration is how long a notice stays on screen.
	NoticeDuration = 5 * time.Second

	maxNotices   = 3
	tableRows    = 10
	chartHeight  = 6
	tickInterval = 250 * time.Millisecond
)

// Options configures the Model.
type Options struct {
	Location      *time.Location // block time zone
	TokenExponent int32          // voting power scale
	OnStart       func()         // called once when the welcome screen ends
	Now           func() time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	keys   KeyMap
	help   help.Model
	tables *components.TablesComponent
	stats  *components.StatsComponent

	// Phase state
	phase        Phase
	welcomeStart time.Time
	started      bool

	// State
	opts       Options
	state      DashboardState
	notices    []NoticeMsg
	showCharts bool
	quitting   bool
	width      int
	height     int
	lastUpdate time.Time
}

// New creates a new TUI model.
func New(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return Model{
		keys:         DefaultKeyMap(),
		help:         help.New(),
		tables:       components.NewTablesComponent(tableRows),
		stats:        components.NewStatsComponent(),
		phase:        PhaseWelcome,
		welcomeStart: opts.Now(),
		opts:         opts,
		showCharts:   true,
		state:        DashboardState{Connection: chain.StateDisconnected},
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Phase returns the current phase.
func (m Model) Phase() Phase { return m.phase }

// Notices returns the notices still on screen.
func (m Model) Notices() []NoticeMsg { return m.activeNotices(m.opts.Now()) }

// State returns the dashboard data.
func (m Model) State() DashboardState { return m.state }

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.phase == PhaseWelcome {
			return m.leaveWelcome()
		}
		switch {
		case key.Matches(msg, m.keys.Tab):
			m.tables.Next()
		case key.Matches(msg, m.keys.Charts):
			m.showCharts = !m.showCharts
		case key.Matches(msg, m.keys.Clear):
			m.notices = nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		default:
			return m, m.tables.Update(msg)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case TickMsg:
		now := m.opts.Now()
		m.notices = m.activeNotices(now)
		if m.phase == PhaseWelcome && now.Sub(m.welcomeStart) >= WelcomeDuration {
			next, cmd := m.leaveWelcome()
			return next, tea.Batch(cmd, tickCmd())
		}
		m.refreshTables(now)
		return m, tickCmd()

	case SnapshotMsg:
		m.state.Snapshot = msg.Snapshot
		m.stats.Update(components.Stats{
			BlocksAccepted: msg.Snapshot.Stats.BlocksAccepted,
			BlocksRejected: msg.Snapshot.Stats.BlocksRejected,
			TxsAccepted:    msg.Snapshot.Stats.TxsAccepted,
			TxsRejected:    msg.Snapshot.Stats.TxsRejected,
		})
		m.touch()

	case NodeStatusMsg:
		m.state.Status = msg.Status
		m.touch()

	case GasPriceMsg:
		m.state.Gas = msg.Price

	case ConnectionStatusMsg:
		m.state.Connection = msg.State

	case ValidatorsMsg:
		m.state.Validators = msg.Set
		m.tables.SetValidators(ValidatorRows(msg.Set, m.opts.TokenExponent))

	case NoticeMsg:
		if msg.At.IsZero() {
			msg.At = m.opts.Now()
		}
		m.notices = append(m.notices, msg)
		if len(m.notices) > maxNotices {
			m.notices = m.notices[len(m.notices)-maxNotices:]
		}
	}

	return m, nil
}

func (m Model) leaveWelcome() (Model, tea.Cmd) {
	m.phase = PhaseStartup
	if m.state.Loaded() {
		m.phase = PhaseDashboard
	}
	if m.started || m.opts.OnStart == nil {
		return m, nil
	}
	m.started = true
	start := m.opts.OnStart
	return m, func() tea.Msg {
		start()
		return nil
	}
}

// touch records new data and promotes the startup screen once loaded.
func (m *Model) touch() {
	now := m.opts.Now()
	m.lastUpdate = now
	if m.phase == PhaseStartup && m.state.Loaded() {
		m.phase = PhaseDashboard
	}
	m.refreshTables(now)
}

func (m *Model) refreshTables(now time.Time) {
	m.tables.SetBlocks(BlockRows(m.state.Snapshot.Blocks, now))
	m.tables.SetTxs(TxRows(m.state.Snapshot.Txs, now))
}

func (m Model) activeNotices(now time.Time) []NoticeMsg {
	var out []NoticeMsg
	for _, n := range m.notices {
		if now.Sub(n.At) < NoticeDuration {
			out = append(out, n)
		}
	}
	return out
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		return m.renderStartupScreen()
	}

	width := m.width
	if width == 0 {
		width = 100
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(" CosVM Explorer "))
	b.WriteString("\n\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	b.WriteString(components.RenderTiles(BuildTiles(m.state, m.opts.Location), width))
	b.WriteString("\n")

	if m.showCharts {
		b.WriteString(m.renderCharts(width))
		b.WriteString("\n")
	}

	b.WriteString(m.renderNotices())

	b.WriteString(BoxStyle.Width(max(width-4, 20)).Render(m.tables.View()))
	b.WriteString("\n")
	b.WriteString(m.stats.View())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m Model) renderCharts(width int) string {
	snap := m.state.Snapshot
	chartW := width/2 - 4

	blocks, err := components.RenderChart("Block Height and Time",
		components.ChartData{Labels: snap.BlockSeries.Labels, Values: snap.BlockSeries.Values},
		chartW, chartHeight)
	daily, err2 := components.RenderChart("Total Transactions",
		components.ChartData{Labels: snap.DailySeries.Labels, Values: snap.DailySeries.Values},
		chartW, chartHeight)
	if errors.Is(err, components.ErrChartTooSmall) || errors.Is(err2, components.ErrChartTooSmall) {
		return MutedValue.Render("  (terminal too small for charts)") + "\n"
	}

	left := BoxStyle.Width(chartW).Render(blocks)
	right := BoxStyle.Width(chartW).Render(daily)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n"
}

func (m Model) renderNotices() string {
	active := m.activeNotices(m.opts.Now())
	if len(active) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

	var sb strings.Builder
	for _, n := range active {
		sb.WriteString(titleStyle.Render("  ✗ " + n.Title))
		if n.Description != "" {
			sb.WriteString(descStyle.Render("  " + n.Description))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string
	parts = append(parts, connectionStyle(m.state.Connection).Render(connectionIcon(m.state.Connection)+" "+string(m.state.Connection)))

	if b, ok := m.state.Snapshot.LatestBlock(); ok {
		parts = append(parts, fmt.Sprintf("Block: #%d", b.Height))
	}
	if !m.lastUpdate.IsZero() {
		ago := m.opts.Now().Sub(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}
	return strings.Join(parts, "  │  ")
}

func connectionStyle(s chain.ConnectionState) lipgloss.Style {
	switch s {
	case chain.StateConnected:
		return StatusConnected
	case chain.StateConnecting, chain.StateReconnecting:
		return StatusReconnecting
	default:
		return StatusDisconnected
	}
}

func connectionIcon(s chain.ConnectionState) string {
	if s == chain.StateConnected {
		return "●"
	}
	return "○"
}

// renderWelcomeScreen renders the welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	greenStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	elapsed := m.opts.Now().Sub(m.welcomeStart)
	dots := strings.Repeat(".", int(elapsed.Milliseconds()/300)%4)

	logo := `
    ██████╗ ██████╗ ███████╗██╗   ██╗███╗   ███╗
   ██╔════╝██╔═══██╗██╔════╝██║   ██║████╗ ████║
   ██║     ██║   ██║███████╗██║   ██║██╔████╔██║
   ██║     ██║   ██║╚════██║╚██╗ ██╔╝██║╚██╔╝██║
   ╚██████╗╚██████╔╝███████║ ╚████╔╝ ██║ ╚═╝ ██║
    ╚═════╝ ╚═════╝ ╚══════╝  ╚═══╝  ╚═╝     ╚═╝
`
	var sb strings.Builder
	sb.WriteString("\n\n\n")
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("                 E X P L O R E R"))
	sb.WriteString("\n\n\n")
	sb.WriteString(greenStyle.Render(fmt.Sprintf("               Connecting%s", dots)))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("         Press any key to skip, or wait..."))
	sb.WriteString("\n")
	return sb.String()
}

// renderStartupScreen renders the loading screen shown until the first
// block or node status arrives.
func (m Model) renderStartupScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).MarginBottom(1)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	spinners := []string{"◐", "◓", "◑", "◒"}
	idx := int(m.opts.Now().UnixMilli()/200) % len(spinners)

	var sb strings.Builder
	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("  CosVM Explorer"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("  %s %s %s\n",
		connectionStyle(m.state.Connection).Render(spinners[idx]),
		mutedStyle.Render("Event stream"),
		connectionStyle(m.state.Connection).Render(string(m.state.Connection)),
	))
	sb.WriteString("\n")
	sb.WriteString(m.renderNotices())
	sb.WriteString(mutedStyle.Render("  Waiting for the first block..."))
	sb.WriteString("\n")
	return sb.String()
}
