package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	chain "github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	explorer "github.com/fd1az/cosvm-explorer/business/explorer/app"
	staking "github.com/fd1az/cosvm-explorer/business/staking/domain"
	"github.com/fd1az/cosvm-explorer/internal/apperror"
)

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Presenter forwards dashboard updates to a running program as messages.
type Presenter struct {
	program Sender
	now     func() time.Time
}

// NewPresenter creates a Presenter for program.
func NewPresenter(program Sender) *Presenter {
	return &Presenter{program: program, now: time.Now}
}

var _ explorer.Presenter = (*Presenter)(nil)

func (p *Presenter) Publish(snap explorer.Snapshot) {
	p.program.Send(SnapshotMsg{Snapshot: snap})
}

func (p *Presenter) NodeStatusUpdated(st *chain.NodeStatus) {
	p.program.Send(NodeStatusMsg{Status: st})
}

func (p *Presenter) GasPriceUpdated(gp *chain.GasPrice) {
	p.program.Send(GasPriceMsg{Price: gp})
}

func (p *Presenter) ConnectionChanged(state chain.ConnectionState) {
	p.program.Send(ConnectionStatusMsg{State: state})
}

func (p *Presenter) ValidatorsUpdated(set *staking.ValidatorSet) {
	p.program.Send(ValidatorsMsg{Set: set})
}

// ValidatorsFailed shows the validator table toast.
func (p *Presenter) ValidatorsFailed(err error) {
	p.program.Send(NoticeMsg{
		Title:       "Failed to fetch datatable",
		Description: describe(err),
		At:          p.now(),
	})
}

func (p *Presenter) Notice(err error) {
	p.program.Send(NoticeMsg{
		Title:       noticeTitle(err),
		Description: describe(err),
		At:          p.now(),
	})
}

func noticeTitle(err error) string {
	switch apperror.GetCode(err) {
	case apperror.CodeStreamClosed:
		return "Event stream closed"
	case apperror.CodeStatusQueryFailed:
		return "Failed to fetch node status"
	case apperror.CodeValidatorQueryFailed:
		return "Failed to fetch datatable"
	default:
		return "Request failed"
	}
}

func describe(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
