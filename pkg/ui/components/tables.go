package components

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab selects the visible table.
type Tab int

const (
	TabBlocks Tab = iota
	TabTxs
	TabValidators
)

var tabNames = []string{"Blocks", "Transactions", "Validators"}

func (t Tab) String() string {
	if int(t) < len(tabNames) {
		return tabNames[t]
	}
	return "?"
}

// BlockRow is one line of the block table.
type BlockRow struct {
	Height int64
	Age    string
	Txs    int
	Path   string
}

// TxRow is one line of the transaction table.
type TxRow struct {
	Hash    string
	Success bool
	Message string
	Height  int64
	Age     string
	Path    string
}

// ValidatorRow is one line of the validator table.
type ValidatorRow struct {
	Moniker     string
	Status      string
	VotingPower string
	Commission  string
}

// TablesComponent renders the block, transaction and validator tables as
// tabs. Only the active table handles keys.
type TablesComponent struct {
	active     Tab
	blocks     table.Model
	txs        table.Model
	validators table.Model
}

// NewTablesComponent creates the tables with room for height rows each.
func NewTablesComponent(height int) *TablesComponent {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#374151")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED"))
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#374151")).
		Bold(false)

	newTable := func(cols []table.Column) table.Model {
		return table.New(
			table.WithColumns(cols),
			table.WithHeight(height),
			table.WithStyles(styles),
		)
	}

	c := &TablesComponent{
		blocks: newTable([]table.Column{
			{Title: "Height", Width: 10},
			{Title: "Age", Width: 10},
			{Title: "Txs", Width: 5},
			{Title: "Link", Width: 18},
		}),
		txs: newTable([]table.Column{
			{Title: "Hash", Width: 15},
			{Title: "Result", Width: 8},
			{Title: "Messages", Width: 20},
			{Title: "Height", Width: 10},
			{Title: "Age", Width: 10},
		}),
		validators: newTable([]table.Column{
			{Title: "Validator", Width: 22},
			{Title: "Status", Width: 9},
			{Title: "Voting Power", Width: 16},
			{Title: "Commission", Width: 10},
		}),
	}
	c.focus()
	return c
}

// Active returns the visible tab.
func (c *TablesComponent) Active() Tab { return c.active }

// Next cycles to the next tab.
func (c *TablesComponent) Next() {
	c.active = (c.active + 1) % Tab(len(tabNames))
	c.focus()
}

func (c *TablesComponent) focus() {
	c.blocks.Blur()
	c.txs.Blur()
	c.validators.Blur()
	c.current().Focus()
}

func (c *TablesComponent) current() *table.Model {
	switch c.active {
	case TabTxs:
		return &c.txs
	case TabValidators:
		return &c.validators
	default:
		return &c.blocks
	}
}

// SetBlocks replaces the block rows.
func (c *TablesComponent) SetBlocks(rows []BlockRow) {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row{strconv.FormatInt(r.Height, 10), r.Age, strconv.Itoa(r.Txs), r.Path}
	}
	c.blocks.SetRows(out)
}

// SetTxs replaces the transaction rows.
func (c *TablesComponent) SetTxs(rows []TxRow) {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		result := "Success"
		if !r.Success {
			result = "Failed"
		}
		out[i] = table.Row{r.Hash, result, r.Message, strconv.FormatInt(r.Height, 10), r.Age}
	}
	c.txs.SetRows(out)
}

// SetValidators replaces the validator rows.
func (c *TablesComponent) SetValidators(rows []ValidatorRow) {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row{r.Moniker, r.Status, r.VotingPower, r.Commission}
	}
	c.validators.SetRows(out)
}

// Rows returns the rows of a tab, for tests and the CLI reporter.
func (c *TablesComponent) Rows(t Tab) []table.Row {
	switch t {
	case TabTxs:
		return c.txs.Rows()
	case TabValidators:
		return c.validators.Rows()
	default:
		return c.blocks.Rows()
	}
}

// Update forwards navigation keys to the active table.
func (c *TablesComponent) Update(msg tea.Msg) tea.Cmd {
	t, cmd := c.current().Update(msg)
	*c.current() = t
	return cmd
}

// View renders the tab bar and the active table.
func (c *TablesComponent) View() string {
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#7C3AED")).Padding(0, 1)
	idleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Padding(0, 1)

	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == c.active {
			tabs[i] = activeStyle.Render(name)
		} else {
			tabs[i] = idleStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n" + c.current().View()
}
