// Package wsconn provides a WebSocket client with reconnection and keepalive.
package wsconn

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/fd1az/cosvm-explorer/internal/apperror"
)

// State represents the connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	StateClosed       State = "closed"
)

// MessageHandler receives every inbound frame.
type MessageHandler func(ctx context.Context, msg []byte)

// StateHandler is notified on every state transition. err is set when the
// transition was caused by a failure.
type StateHandler func(state State, err error)

// Config holds WebSocket client configuration.
type Config struct {
	URL            string
	Name           string
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxReconnects  int // 0 = infinite
	AutoReconnect  bool
	PingInterval   time.Duration // 0 disables keepalive pings
	PongTimeout    time.Duration
	ReadTimeout    time.Duration // 0 = no idle timeout
	WriteTimeout   time.Duration
	MaxMessageSize int64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(url, name string) Config {
	return Config{
		URL:            url,
		Name:           name,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		AutoReconnect:  true,
		PingInterval:   30 * time.Second,
		PongTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxMessageSize: 4 << 20,
	}
}

// Client is a WebSocket client. Inbound frames are delivered to the
// OnMessage handler from a single reader goroutine.
type Client struct {
	cfg Config

	mu    sync.RWMutex
	conn  *websocket.Conn
	state State

	onMessage     MessageHandler
	onStateChange StateHandler

	reconnects atomic.Int64

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New creates a new WebSocket client.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("invalid websocket url: "+cfg.URL),
			apperror.WithCause(err))
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		cfg:    cfg,
		state:  StateDisconnected,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// OnMessage sets the inbound frame handler. Call before Connect.
func (c *Client) OnMessage(h MessageHandler) {
	c.mu.Lock()
	c.onMessage = h
	c.mu.Unlock()
}

// OnStateChange sets the state transition handler. Call before Connect.
func (c *Client) OnStateChange(h StateHandler) {
	c.mu.Lock()
	c.onStateChange = h
	c.mu.Unlock()
}

// Connect dials once. On failure the client returns to StateDisconnected.
func (c *Client) Connect(ctx context.Context) error {
	if c.ctx.Err() != nil {
		return apperror.New(apperror.CodeWebSocketClosed, apperror.WithContext(c.cfg.Name))
	}
	c.setState(StateConnecting, nil)

	conn, err := c.dial(ctx)
	if err != nil {
		c.setState(StateDisconnected, err)
		return err
	}
	c.markConnected(conn)
	return nil
}

// ConnectWithRetry dials with exponential backoff until it succeeds, ctx is
// done or MaxReconnects attempts have failed.
func (c *Client) ConnectWithRetry(ctx context.Context) error {
	backoff := c.cfg.InitialBackoff
	for attempt := 1; ; attempt++ {
		err := c.Connect(ctx)
		if err == nil {
			return nil
		}
		if c.cfg.MaxReconnects > 0 && attempt >= c.cfg.MaxReconnects {
			return err
		}
		if !c.sleep(ctx, backoff) {
			return ctx.Err()
		}
		backoff = nextBackoff(backoff, c.cfg.MaxBackoff)
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, c.cfg.URL, nil)
	if err != nil {
		return nil, apperror.External(apperror.CodeWebSocketConnectionError, c.cfg.Name, err)
	}
	if c.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(c.cfg.MaxMessageSize)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop(conn)
	if c.cfg.PingInterval > 0 {
		go c.pingLoop(conn)
	}
	return conn, nil
}

// markConnected publishes StateConnected unless conn already failed.
func (c *Client) markConnected(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn != conn || c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateConnected
	h := c.onStateChange
	c.mu.Unlock()

	if h != nil {
		h(StateConnected, nil)
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := c.read(conn)
		if err != nil {
			c.handleReadError(conn, err)
			return
		}

		c.mu.RLock()
		h := c.onMessage
		c.mu.RUnlock()
		if h != nil {
			h(c.ctx, data)
		}
	}
}

func (c *Client) read(conn *websocket.Conn) (websocket.MessageType, []byte, error) {
	if c.cfg.ReadTimeout <= 0 {
		return conn.Read(c.ctx)
	}
	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.ReadTimeout)
	defer cancel()
	return conn.Read(ctx)
}

func (c *Client) handleReadError(conn *websocket.Conn, err error) {
	if c.ctx.Err() != nil || c.State() == StateClosed {
		return
	}

	c.mu.Lock()
	current := c.conn == conn
	if current {
		c.conn = nil
	}
	c.mu.Unlock()
	if !current {
		return
	}

	_ = conn.Close(websocket.StatusGoingAway, "read failed")
	wrapped := apperror.External(apperror.CodeWebSocketConnectionError, c.cfg.Name, err)
	if !c.cfg.AutoReconnect {
		c.setState(StateDisconnected, wrapped)
		return
	}
	go c.reconnect(wrapped)
}

func (c *Client) reconnect(cause error) {
	c.setState(StateReconnecting, cause)

	backoff := c.cfg.InitialBackoff
	for attempt := 1; ; attempt++ {
		if !c.sleep(c.ctx, backoff) {
			return
		}
		c.reconnects.Add(1)

		conn, err := c.dial(c.ctx)
		if err == nil {
			c.markConnected(conn)
			return
		}
		if c.cfg.MaxReconnects > 0 && attempt >= c.cfg.MaxReconnects {
			c.setState(StateDisconnected, err)
			return
		}
		backoff = nextBackoff(backoff, c.cfg.MaxBackoff)
	}
}

func (c *Client) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if !c.isCurrent(conn) {
				return
			}
			ctx, cancel := context.WithTimeout(c.ctx, c.cfg.PongTimeout)
			err := conn.Ping(ctx)
			cancel()
			if err != nil {
				// Closing unblocks the reader, which drives reconnection.
				_ = conn.Close(websocket.StatusGoingAway, "pong timeout")
				return
			}
		}
	}
}

// Send writes a text frame.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	conn, err := c.currentConn()
	if err != nil {
		return err
	}
	ctx, cancel := c.writeContext(ctx)
	defer cancel()

	if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
		return apperror.External(apperror.CodeWebSocketSendError, c.cfg.Name, err)
	}
	return nil
}

// SendJSON encodes v as JSON and writes it as a text frame.
func (c *Client) SendJSON(ctx context.Context, v any) error {
	conn, err := c.currentConn()
	if err != nil {
		return err
	}
	ctx, cancel := c.writeContext(ctx)
	defer cancel()

	if err := wsjson.Write(ctx, conn, v); err != nil {
		return apperror.External(apperror.CodeWebSocketSendError, c.cfg.Name, err)
	}
	return nil
}

func (c *Client) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.WriteTimeout > 0 {
		return context.WithTimeout(ctx, c.cfg.WriteTimeout)
	}
	return context.WithCancel(ctx)
}

func (c *Client) currentConn() (*websocket.Conn, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil || c.state == StateClosed {
		return nil, apperror.New(apperror.CodeWebSocketClosed, apperror.WithContext(c.cfg.Name))
	}
	return c.conn, nil
}

func (c *Client) isCurrent(conn *websocket.Conn) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn == conn
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsConnected reports whether the client holds a live connection.
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// Reconnects returns the number of reconnection attempts so far.
func (c *Client) Reconnects() int64 {
	return c.reconnects.Load()
}

// Close shuts the connection down. It is safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		conn := c.conn
		c.conn = nil
		c.mu.Unlock()

		c.setState(StateClosed, nil)
		if conn != nil {
			// Peer may already be gone; there is nothing left to flush.
			_ = conn.Close(websocket.StatusNormalClosure, "client closing")
		}
		c.cancel()
	})
	return nil
}

func (c *Client) setState(state State, err error) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = state
	h := c.onStateChange
	c.mu.Unlock()

	if h != nil {
		h(state, err)
	}
}

func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	case <-c.ctx.Done():
		return false
	}
}

func nextBackoff(cur, max time.Duration) time.Duration {
	next := cur * 2
	if next > max {
		return max
	}
	return next
}
