package network

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// client is one spectator connection
// The tick goroutine enqueues, writeLoop is the only writer on conn
type client struct {
	id   uint32
	conn *websocket.Conn
	cfg  *Config

	mu      sync.Mutex
	queue   [][]byte
	wake    chan struct{}
	dropped atomic.Uint64

	closeCh   chan struct{}
	closeOnce sync.Once
}

func newClient(id uint32, conn *websocket.Conn, cfg *Config) *client {
	return &client{
		id:      id,
		conn:    conn,
		cfg:     cfg,
		queue:   make([][]byte, 0, cfg.SendQueueSize),
		wake:    make(chan struct{}, 1),
		closeCh: make(chan struct{}),
	}
}

// enqueue appends a frame, dropping the oldest when the backlog is full
func (c *client) enqueue(frame []byte) {
	c.mu.Lock()
	if len(c.queue) >= c.cfg.SendQueueSize {
		copy(c.queue, c.queue[1:])
		c.queue = c.queue[:len(c.queue)-1]
		c.dropped.Add(1)
	}
	c.queue = append(c.queue, frame)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// take removes and returns every queued frame
func (c *client) take() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return nil
	}
	out := make([][]byte, len(c.queue))
	copy(out, c.queue)
	c.queue = c.queue[:0]
	return out
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.closeCh)
		if c.conn != nil {
			deadline := time.Now().Add(time.Second)
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			c.conn.Close()
		}
	})
}

// writeLoop sends queued snapshots and keepalive pings until the client closes
func (c *client) writeLoop() {
	ping := time.NewTicker(c.cfg.PingInterval)
	defer ping.Stop()
	defer c.close()

	for {
		select {
		case <-c.closeCh:
			return

		case <-c.wake:
			for _, frame := range c.take() {
				c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
				if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
					return
				}
			}

		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains control frames, spectators send nothing else
func (c *client) readLoop() {
	defer c.close()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
