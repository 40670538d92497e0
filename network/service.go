package network

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/lixenwraith/broadside/core"
	"github.com/lixenwraith/broadside/engine"
	"github.com/lixenwraith/broadside/status"
)

var ErrTooManyClients = errors.New("spectator limit reached")

// Service serves the spectator feed as a hub-managed service
type Service struct {
	config   *Config
	upgrader websocket.Upgrader
	server   *http.Server
	listener net.Listener

	mu      sync.RWMutex
	clients map[uint32]*client
	nextID  uint32
	wg      sync.WaitGroup

	disabled atomic.Bool
	running  atomic.Bool

	statClients *atomic.Int64
	statSent    *atomic.Int64
	statDropped *atomic.Int64
}

// NewService creates a spectator service, disabled until Init sees an address
func NewService() *Service {
	return &Service{
		config:  DefaultConfig(),
		clients: make(map[uint32]*client),
	}
}

func (s *Service) Name() string           { return "spectate" }
func (s *Service) Dependencies() []string { return nil }

// Init configures the service
// args[0]: *Config overriding the environment, args[1]: *status.Registry
func (s *Service) Init(args ...any) error {
	s.config = ConfigFromEnv()
	reg := status.NewRegistry()
	for _, arg := range args {
		switch v := arg.(type) {
		case *Config:
			if v != nil {
				s.config = v
			}
		case *status.Registry:
			if v != nil {
				reg = v
			}
		}
	}

	s.statClients = reg.Ints.Get("network.clients")
	s.statSent = reg.Ints.Get("network.frames_sent")
	s.statDropped = reg.Ints.Get("network.frames_dropped")

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  s.config.ReadBufferSize,
		WriteBufferSize: s.config.WriteBufferSize,
		// Read-only feed, any origin may watch
		CheckOrigin: func(*http.Request) bool { return true },
	}

	if s.config.Address == "" {
		s.disabled.Store(true)
	}
	return nil
}

// Handler returns the HTTP handler serving the feed path
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Path, s.handleSpectate)
	return mux
}

// Start binds the listener and serves in the background
func (s *Service) Start() error {
	if s.disabled.Load() || !s.running.CompareAndSwap(false, true) {
		return nil
	}

	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		s.running.Store(false)
		return errors.Wrapf(err, "listen %s", s.config.Address)
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	core.Go(func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[spectate] serve: %v", err)
		}
	})
	log.Printf("[spectate] listening on %s%s", ln.Addr(), s.config.Path)
	return nil
}

// Stop closes every client and the listener, idempotent
func (s *Service) Stop() error {
	if s.server != nil && s.running.CompareAndSwap(true, false) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			log.Printf("[spectate] shutdown: %v", err)
		}
	}

	s.mu.Lock()
	for id, c := range s.clients {
		c.close()
		delete(s.clients, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
	if s.statClients != nil {
		s.statClients.Store(0)
	}
	return nil
}

// Addr returns the bound address, nil before Start
func (s *Service) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ClientCount returns the number of connected spectators
func (s *Service) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Publish encodes snap once and queues it for every spectator
// Runs on the tick goroutine, never blocks on the network
func (s *Service) Publish(snap *engine.Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.clients) == 0 {
		return
	}

	frame, err := Encode(snap)
	if err != nil {
		log.Printf("[spectate] %v", err)
		return
	}
	for _, c := range s.clients {
		before := c.dropped.Load()
		c.enqueue(frame)
		if c.dropped.Load() != before {
			s.statDropped.Add(1)
		}
	}
	s.statSent.Add(int64(len(s.clients)))
}

func (s *Service) handleSpectate(w http.ResponseWriter, r *http.Request) {
	if s.ClientCount() >= s.config.MaxClients {
		http.Error(w, ErrTooManyClients.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[spectate] upgrade: %v", err)
		return
	}

	// The early check is advisory, concurrent upgrades are settled here
	s.mu.Lock()
	if len(s.clients) >= s.config.MaxClients {
		s.mu.Unlock()
		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, ErrTooManyClients.Error()), deadline)
		conn.Close()
		return
	}
	s.nextID++
	c := newClient(s.nextID, conn, s.config)
	s.clients[c.id] = c
	s.statClients.Store(int64(len(s.clients)))
	s.mu.Unlock()
	log.Printf("[spectate] client %d connected from %s", c.id, conn.RemoteAddr())

	s.wg.Add(2)
	core.Go(func() {
		defer s.wg.Done()
		c.writeLoop()
	})
	core.Go(func() {
		defer s.wg.Done()
		c.readLoop()
		s.remove(c)
	})
}

func (s *Service) remove(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c.id]; ok {
		delete(s.clients, c.id)
		s.statClients.Store(int64(len(s.clients)))
		log.Printf("[spectate] client %d left", c.id)
	}
	s.mu.Unlock()
}
