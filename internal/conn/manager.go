// Package conn keeps the analyzer socket alive: it dials, pumps inbound
// frames onto the event loop and reconnects with a bounded retry budget.
package conn

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iburimskiy/pulse-visualization/internal/config"
	"github.com/iburimskiy/pulse-visualization/internal/ingest"
	"github.com/iburimskiy/pulse-visualization/internal/log"
	"github.com/iburimskiy/pulse-visualization/internal/loop"
)

// Options configures a Manager. Post and Clock must deliver callbacks on the
// loop that owns the Manager.
type Options struct {
	URL         string
	Dialer      Dialer
	Clock       loop.Clock
	Post        func(func()) bool
	RetryDelay  time.Duration
	MaxRetries  int
	DialTimeout time.Duration
	Log         *log.Logger

	OnMessage func(frame []byte)
	OnStatus  func(Status)
}

// session is one dial attempt and, if it succeeds, the connection it opened.
type session struct {
	id     uuid.UUID
	conn   Conn
	cancel context.CancelFunc
	done   bool
}

// Manager owns the socket lifecycle. All methods must be called from the
// owning loop.
type Manager struct {
	opts Options
	log  *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	status  Status
	retry   int
	current *session
	timer   loop.Timer
	closed  bool

	attempts  int
	scheduled int
}

func NewManager(opts Options) *Manager {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = config.ReconnectDelay
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = config.MaxRetries
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = config.DialTimeout
	}
	if opts.Dialer == nil {
		opts.Dialer = WSDialer{HandshakeTimeout: opts.DialTimeout}
	}
	if opts.Log == nil {
		opts.Log = log.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		opts:   opts,
		log:    opts.Log,
		ctx:    ctx,
		cancel: cancel,
		status: Status{Phase: PhaseConnecting, MaxRetries: opts.MaxRetries},
	}
}

// Start opens the first connection.
func (m *Manager) Start() {
	m.connect()
}

// Status returns the current state.
func (m *Manager) Status() Status {
	return m.status
}

// Attempts returns how many dials have been started.
func (m *Manager) Attempts() int {
	return m.attempts
}

// Reconnect is the manual trigger used once automatic retries are
// exhausted. It also short-circuits a pending delayed retry. It does nothing
// while a connection is open or being dialed.
func (m *Manager) Reconnect() bool {
	if m.closed || m.active() {
		return false
	}
	m.log.Infof("manual reconnect from %s", m.status.Phase)
	m.stopTimer()
	m.retry = 0
	m.connect()
	return true
}

// SelectDevice asks the analyzer to switch input. The request is sent only
// while connected; otherwise it is dropped and false is returned.
func (m *Manager) SelectDevice(index int) bool {
	if m.closed || m.status.Phase != PhaseConnected || m.current == nil || m.current.conn == nil {
		m.log.Debugf("select_device %d dropped while %s", index, m.status.Phase)
		return false
	}
	frame, err := ingest.EncodeSelectDevice(index)
	if err != nil {
		m.log.Errorf("encode select_device: %v", err)
		return false
	}
	s := m.current
	if err := s.conn.WriteMessage(frame); err != nil {
		m.dropped(s, fmt.Errorf("write select_device: %w", err))
		return false
	}
	m.log.Infof("requested device %d", index)
	return true
}

// Close tears the manager down: the pending retry is cancelled, any dial in
// flight is aborted and the socket is closed. Callbacks still queued on the
// loop become no-ops.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.stopTimer()
	if s := m.current; s != nil && !s.done {
		s.done = true
		if s.cancel != nil {
			s.cancel()
		}
		if s.conn != nil {
			s.conn.Close()
		}
	}
	m.cancel()
	m.log.Infof("closed")
}

func (m *Manager) active() bool {
	return m.current != nil && !m.current.done
}

func (m *Manager) connect() {
	if m.closed || m.active() {
		return
	}
	m.stopTimer()

	s := &session{id: uuid.New()}
	ctx, cancel := context.WithTimeout(m.ctx, m.opts.DialTimeout)
	s.cancel = cancel
	m.current = s
	m.attempts++
	// Delayed retries keep reporting Disconnected(n) until they resolve.
	if m.retry == 0 {
		m.setStatus(PhaseConnecting)
	}
	m.log.Debugf("dialing %s (session %s)", m.opts.URL, s.id)

	go func() {
		c, err := m.opts.Dialer.Dial(ctx, m.opts.URL)
		cancel()
		if !m.opts.Post(func() { m.opened(s, c, err) }) && c != nil {
			c.Close()
		}
	}()
}

func (m *Manager) opened(s *session, c Conn, err error) {
	if m.closed || s != m.current || s.done {
		if c != nil {
			c.Close()
		}
		return
	}
	if err != nil {
		m.dropped(s, fmt.Errorf("dial %s: %w", m.opts.URL, err))
		return
	}
	s.conn = c
	m.retry = 0
	m.setStatus(PhaseConnected)
	go m.readPump(s, c)
}

func (m *Manager) readPump(s *session, c Conn) {
	for {
		data, err := c.ReadMessage()
		if err != nil {
			m.opts.Post(func() { m.dropped(s, err) })
			return
		}
		if !m.opts.Post(func() { m.deliver(s, data) }) {
			c.Close()
			return
		}
	}
}

func (m *Manager) deliver(s *session, data []byte) {
	if m.closed || s != m.current || s.done {
		return
	}
	m.log.Debugf("frame %d bytes", len(data))
	if m.opts.OnMessage != nil {
		m.opts.OnMessage(data)
	}
}

// dropped handles the end of a session. Repeated reports for the same
// session are ignored so one failure never counts twice.
func (m *Manager) dropped(s *session, err error) {
	if s != m.current || s.done {
		return
	}
	s.done = true
	if s.conn != nil {
		s.conn.Close()
	}
	if m.closed {
		return
	}
	m.log.Infof("session %s ended: %v", s.id, err)

	if m.retry < m.opts.MaxRetries-1 {
		m.retry++
		m.setStatus(PhaseDisconnected)
		m.scheduleReconnect()
		return
	}
	m.retry = m.opts.MaxRetries
	m.setStatus(PhaseRetryExhausted)
	m.log.Warnf("retry limit reached after %d attempts", m.Attempts())
}

func (m *Manager) scheduleReconnect() {
	if m.timer != nil {
		return
	}
	m.scheduled++
	m.timer = m.opts.Clock.AfterFunc(m.opts.RetryDelay, func() {
		m.timer = nil
		m.connect()
	})
}

func (m *Manager) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Manager) setStatus(p Phase) {
	next := Status{Phase: p, Retry: m.retry, MaxRetries: m.opts.MaxRetries}
	if next == m.status {
		return
	}
	m.status = next
	m.log.Infof("status: %s", next)
	if m.opts.OnStatus != nil {
		m.opts.OnStatus(next)
	}
}
