// Package reporter contains presenters for the explorer dashboard.
package reporter

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	chain "github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	"github.com/fd1az/cosvm-explorer/business/explorer/app"
	"github.com/fd1az/cosvm-explorer/business/explorer/domain"
	staking "github.com/fd1az/cosvm-explorer/business/staking/domain"
)

// ConsolePresenter implements app.Presenter for CLI output. It prints each
// new block and transaction once, as they reach the head of their window.
type ConsolePresenter struct {
	out io.Writer
	loc *time.Location

	mu        sync.Mutex
	lastBlock int64
	lastTx    string
	lastState chain.ConnectionState
}

var _ app.Presenter = (*ConsolePresenter)(nil)

// NewConsolePresenter creates a ConsolePresenter writing to stdout.
func NewConsolePresenter(loc *time.Location) *ConsolePresenter {
	return NewConsolePresenterTo(os.Stdout, loc)
}

// NewConsolePresenterTo creates a ConsolePresenter writing to out.
func NewConsolePresenterTo(out io.Writer, loc *time.Location) *ConsolePresenter {
	if loc == nil {
		loc = time.Local
	}
	return &ConsolePresenter{out: out, loc: loc}
}

// Start prints the banner.
func (r *ConsolePresenter) Start() {
	fmt.Fprintln(r.out, "CosVM Explorer Started")
	fmt.Fprintln(r.out, "======================")
}

// Stop prints the shutdown line.
func (r *ConsolePresenter) Stop() {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "CosVM Explorer Stopped")
}

// Publish prints the new window heads.
func (r *ConsolePresenter) Publish(snap app.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := snap.LatestBlock(); ok && b.Height != r.lastBlock {
		r.lastBlock = b.Height
		fmt.Fprintf(r.out, "[block] #%-10d %s  txs=%d  %s\n",
			b.Height, b.Time.In(r.loc).Format(domain.BlockLabelLayout), b.TxCount, domain.BlockPath(b.Height))
	}
	if len(snap.Txs) > 0 && snap.Txs[0].Key() != r.lastTx {
		tx := snap.Txs[0]
		r.lastTx = tx.Key()
		result := "ok"
		if !tx.Succeeded() {
			result = fmt.Sprintf("failed(%d)", tx.ResultCode)
		}
		msg := domain.DescribeMessages(tx.Payload)
		if msg == "" {
			msg = "-"
		}
		fmt.Fprintf(r.out, "[tx]    #%-10d %s  %s  %s\n",
			tx.Height, domain.TrimHash(tx.HashHex(), 8), result, msg)
	}
}

func (r *ConsolePresenter) NodeStatusUpdated(st *chain.NodeStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "[node]  %s height=%d validators=%d catching_up=%t\n",
		st.Network, st.LatestBlockHeight, st.ValidatorsTotal, st.CatchingUp)
}

func (r *ConsolePresenter) GasPriceUpdated(gp *chain.GasPrice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "[gas]   %s\n", gp.String())
}

// ConnectionChanged prints state transitions only.
func (r *ConsolePresenter) ConnectionChanged(state chain.ConnectionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state == r.lastState {
		return
	}
	r.lastState = state
	fmt.Fprintf(r.out, "[%s] stream: %s\n", time.Now().Format("15:04:05"), state)
}

func (r *ConsolePresenter) ValidatorsUpdated(set *staking.ValidatorSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "[vals]  %d bonded validators (showing %d)\n", set.Total, len(set.Validators))
}

func (r *ConsolePresenter) ValidatorsFailed(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "[error] Failed to fetch datatable: %v\n", err)
}

func (r *ConsolePresenter) Notice(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "[error] %v\n", err)
}
