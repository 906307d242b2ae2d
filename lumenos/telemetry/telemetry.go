//go:build !tinygo

// Package telemetry streams render statistics to websocket clients and accepts
// simple control commands back.
package telemetry

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"lumen/lumenos/render"

	"github.com/gorilla/websocket"
)

// DefaultInterval is the broadcast period (10 Hz).
const DefaultInterval = 100 * time.Millisecond

const (
	sendQueue    = 8
	readLimit    = 4096
	pongWait     = 60 * time.Second
	pingPeriod   = 30 * time.Second
	writeTimeout = 5 * time.Second
)

var ErrNoSource = errors.New("telemetry: nil status source")

// Beam is the last emitted step in DAC codes.
type Beam struct {
	X     uint16 `json:"x"`
	Y     uint16 `json:"y"`
	Laser bool   `json:"laser"`
}

type Counters struct {
	PointBufWait   uint32 `json:"point_buf_wait"`
	PointBufRepeat uint32 `json:"point_buf_repeat"`
	StepBufWait    uint32 `json:"step_buf_wait"`
	Swaps          uint32 `json:"swaps"`
	Pushed         uint32 `json:"pushed"`
	Faults         uint32 `json:"faults"`
	Ticks          uint32 `json:"ticks"`
	Emitted        uint32 `json:"emitted"`
	Underruns      uint32 `json:"underruns"`
	Buffered       int    `json:"buffered"`
}

// Status is one broadcast frame.
type Status struct {
	Tick       uint64          `json:"tick"`
	Pattern    string          `json:"pattern"`
	State      string          `json:"state"`
	PPS        uint32          `json:"pps"`
	StepLength uint8           `json:"step_length"`
	Counters   Counters        `json:"counters"`
	Beam       Beam            `json:"beam"`
	Pins       map[string]bool `json:"pins,omitempty"`
}

// NewStatus fills the render part of a Status.
func NewStatus(s render.Stats) Status {
	return Status{
		State: s.State.String(),
		Counters: Counters{
			PointBufWait:   s.PointBufWait,
			PointBufRepeat: s.PointBufRepeat,
			StepBufWait:    s.StepBufWait,
			Swaps:          s.Swaps,
			Pushed:         s.Pushed,
			Faults:         s.Faults(),
			Ticks:          s.Ticks,
			Emitted:        s.Emitted,
			Underruns:      s.Underruns,
			Buffered:       s.Buffered,
		},
		Beam: Beam{
			X:     uint16(s.Last.Point.X),
			Y:     uint16(s.Last.Point.Y),
			Laser: s.Last.Laser,
		},
	}
}

// Command is a client request. Zero fields are ignored.
type Command struct {
	Pattern    string `json:"pattern,omitempty"`
	StepLength uint8  `json:"step_length,omitempty"`
	PPS        uint32 `json:"pps,omitempty"`
}

type Config struct {
	Addr     string
	Interval time.Duration
	// Source is polled once per interval. It must be safe to call from any
	// goroutine.
	Source func() Status
	// Command receives decoded client commands. Optional.
	Command func(Command)
	// Log receives connection errors. Optional.
	Log func(string)
}

// Server is the websocket hub behind /ws.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[int64]*client
	nextID  atomic.Int64

	httpSrv   *http.Server
	done      chan struct{}
	closeOnce sync.Once
}

func New(cfg Config) (*Server, error) {
	if cfg.Source == nil {
		return nil, ErrNoSource
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	s := &Server{
		cfg:     cfg,
		clients: make(map[int64]*client),
		done:    make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		// Local viewers are served from file:// or other ports.
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	return s, nil
}

// Handler returns the HTTP handler serving /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start listens on cfg.Addr and begins broadcasting. It returns the bound
// address.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return "", err
	}
	s.httpSrv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logf("telemetry: serve: " + err.Error())
		}
	}()
	go s.broadcastLoop()
	return ln.Addr().String(), nil
}

// Close disconnects all clients and stops the server.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		for id, c := range s.clients {
			c.close()
			delete(s.clients, id)
		}
		s.mu.Unlock()
		if s.httpSrv != nil {
			err = s.httpSrv.Close()
		}
	})
	return err
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) logf(line string) {
	if s.cfg.Log != nil {
		s.cfg.Log(line)
	}
}

func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.broadcast()
		}
	}
}

func (s *Server) broadcast() {
	s.mu.Lock()
	n := len(s.clients)
	s.mu.Unlock()
	if n == 0 {
		return
	}

	msg, err := json.Marshal(s.cfg.Source())
	if err != nil {
		s.logf("telemetry: encode: " + err.Error())
		return
	}
	s.mu.Lock()
	for _, c := range s.clients {
		c.send(msg)
	}
	s.mu.Unlock()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logf("telemetry: upgrade: " + err.Error())
		return
	}
	c := &client{
		id:     s.nextID.Add(1),
		conn:   conn,
		sendCh: make(chan []byte, sendQueue),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		conn.Close()
		return
	default:
	}
	s.clients[c.id] = c
	s.mu.Unlock()

	go c.writePump()
	s.readPump(c)
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c.id)
	s.mu.Unlock()
	c.close()
}

func (s *Server) readPump(c *client) {
	defer s.removeClient(c)

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logf("telemetry: read: " + err.Error())
			}
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.logf("telemetry: bad command: " + err.Error())
			continue
		}
		if s.cfg.Command != nil {
			s.cfg.Command(cmd)
		}
	}
}

type client struct {
	id     int64
	conn   *websocket.Conn
	sendCh chan []byte

	once sync.Once
	done chan struct{}
}

// send queues msg. A slow client misses frames instead of stalling the hub.
func (c *client) send(msg []byte) {
	select {
	case c.sendCh <- msg:
	case <-c.done:
	default:
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
