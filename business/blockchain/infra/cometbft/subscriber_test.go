package cometbft

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	"github.com/fd1az/cosvm-explorer/internal/logger"
)

// fakeNode acknowledges both subscriptions, then pushes frames.
func fakeNode(t *testing.T, queries chan<- string, frames ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")
		ctx := context.Background()

		for i := 0; i < 2; i++ {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			var req rpcRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return
			}
			queries <- req.Params["query"].(string)
			ack := `{"jsonrpc":"2.0","id":` + strconv.Itoa(req.ID) + `,"result":{}}`
			if err := conn.Write(ctx, websocket.MessageText, []byte(ack)); err != nil {
				return
			}
		}

		for _, f := range frames {
			if err := conn.Write(ctx, websocket.MessageText, []byte(f)); err != nil {
				return
			}
		}

		// Hold the connection until the client leaves.
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}))
}

func newTestSubscriber(t *testing.T, url string) *Subscriber {
	t.Helper()
	cfg := DefaultSubscriberConfig("ws" + strings.TrimPrefix(url, "http"))
	cfg.PingInterval = 0
	cfg.InitialBackoff = 10 * time.Millisecond
	cfg.MaxBackoff = 20 * time.Millisecond

	s, err := NewSubscriber(cfg, logger.NewNop())
	require.NoError(t, err)
	return s
}

func receive(t *testing.T, ch <-chan domain.Event) domain.Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed early")
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for event")
	}
	return domain.Event{}
}

func TestSubscriber_StreamsEvents(t *testing.T) {
	queries := make(chan string, 2)
	server := fakeNode(t, queries, newBlockFrame, `garbage`, txFrame)
	defer server.Close()

	s := newTestSubscriber(t, server.URL)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := s.Subscribe(ctx)
	require.NoError(t, err)

	assert.Equal(t, queryNewBlock, <-queries)
	assert.Equal(t, queryTx, <-queries)

	first := receive(t, events)
	require.NotNil(t, first.Block)
	assert.Equal(t, int64(42), first.Block.Height)

	second := receive(t, events)
	require.NotNil(t, second.Tx)
	assert.Equal(t, uint32(5), second.Tx.Code)

	assert.Equal(t, domain.StateConnected, s.State())
}

func TestSubscriber_CancelClosesChannel(t *testing.T) {
	queries := make(chan string, 2)
	server := fakeNode(t, queries)
	defer server.Close()

	s := newTestSubscriber(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := s.Subscribe(ctx)
	require.NoError(t, err)
	<-queries
	<-queries

	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
	assert.Equal(t, domain.StateClosed, s.State())

	_, err = s.Subscribe(context.Background())
	assert.Error(t, err)
}

func TestSubscriber_CloseIsIdempotent(t *testing.T) {
	s := newTestSubscriber(t, "http://127.0.0.1:1")
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
