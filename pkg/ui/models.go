package ui

import (
	"fmt"
	"strconv"
	"time"

	chain "github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	explorer "github.com/fd1az/cosvm-explorer/business/explorer/app"
	"github.com/fd1az/cosvm-explorer/business/explorer/domain"
	staking "github.com/fd1az/cosvm-explorer/business/staking/domain"
	"github.com/fd1az/cosvm-explorer/pkg/ui/components"
)

const hashKeep = 6

// DashboardState is everything the dashboard draws.
type DashboardState struct {
	Snapshot   explorer.Snapshot
	Status     *chain.NodeStatus
	Gas        *chain.GasPrice
	Validators *staking.ValidatorSet
	Connection chain.ConnectionState
}

// Loaded reports whether there is anything to draw yet.
func (s DashboardState) Loaded() bool {
	return len(s.Snapshot.Blocks) > 0 || s.Status != nil
}

// BuildTiles derives the summary tiles. Block fields fall back to node
// status until the first block arrives.
func BuildTiles(s DashboardState, loc *time.Location) []components.Tile {
	var (
		height, blockTime, network string
	)
	if b, ok := s.Snapshot.LatestBlock(); ok {
		height = strconv.FormatInt(b.Height, 10)
		blockTime = displayDate(b.Time, loc)
		network = b.ChainID
	}
	if s.Status != nil {
		if height == "" {
			height = strconv.FormatInt(s.Status.LatestBlockHeight, 10)
		}
		if blockTime == "" {
			blockTime = displayDate(s.Status.LatestBlockTime, loc)
		}
		if network == "" {
			network = s.Status.Network
		}
	}

	validators := ""
	if s.Status != nil {
		validators = strconv.Itoa(s.Status.ValidatorsTotal)
	} else if s.Validators != nil {
		validators = strconv.Itoa(s.Validators.Total)
	}

	gas := "N/A"
	if s.Gas != nil {
		gas = s.Gas.String()
	}

	return []components.Tile{
		{Title: "Latest Block", Value: height, Tooltip: blockTime},
		{Title: "Block Time", Value: blockTime},
		{Title: "Network", Value: network},
		{Title: "Validators", Value: validators},
		{Title: "Gas Track", Value: gas},
		{Title: "Transactions", Value: strconv.Itoa(len(s.Snapshot.Txs))},
	}
}

// BlockRows maps the block window to table rows.
func BlockRows(blocks []domain.BlockRecord, now time.Time) []components.BlockRow {
	rows := make([]components.BlockRow, len(blocks))
	for i, b := range blocks {
		rows[i] = components.BlockRow{
			Height: b.Height,
			Age:    timeFromNow(b.Time, now),
			Txs:    b.TxCount,
			Path:   domain.BlockPath(b.Height),
		}
	}
	return rows
}

// TxRows maps the transaction window to table rows. Payloads are decoded
// here; an undecodable payload leaves the message cell empty.
func TxRows(txs []domain.TransactionRecord, now time.Time) []components.TxRow {
	rows := make([]components.TxRow, len(txs))
	for i, tx := range txs {
		rows[i] = components.TxRow{
			Hash:    domain.TrimHash(tx.HashHex(), hashKeep),
			Success: tx.Succeeded(),
			Message: domain.DescribeMessages(tx.Payload),
			Height:  tx.Height,
			Age:     timeFromNow(tx.ArrivalTimestamp, now),
			Path:    domain.TxPath(tx.Hash),
		}
	}
	return rows
}

// ValidatorRows maps a validator page to table rows.
func ValidatorRows(set *staking.ValidatorSet, exponent int32) []components.ValidatorRow {
	if set == nil {
		return nil
	}
	rows := make([]components.ValidatorRow, len(set.Validators))
	for i, v := range set.Validators {
		rows[i] = components.ValidatorRow{
			Moniker:     v.Moniker,
			Status:      v.Status.Label(),
			VotingPower: v.FormatVotingPower(exponent),
			Commission:  v.CommissionPercent(),
		}
	}
	return rows
}

func displayDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(domain.BlockLabelLayout)
}

func timeFromNow(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
