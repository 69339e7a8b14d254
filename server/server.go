// Package server accepts connections and dispatches HTTP/1.0 requests to a
// router.App, one goroutine per connection.
package server

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smarthome/camserve/router"
	"github.com/smarthome/camserve/web"
)

// ErrServerClosed is returned by Serve after Close.
var ErrServerClosed = errors.New("server: closed")

const DefaultAddr = "0.0.0.0:8081"

// DefaultMaxHeaderBytes bounds the request line plus header block.
const DefaultMaxHeaderBytes = 8 << 10

// Config holds the listener settings.
type Config struct {
	Addr string
	// Debug below 0 silences request and failure logs, 0 logs one line per
	// request, 1 enables debug logs and above 1 adds per-connection traces.
	Debug int
	// LazyInit defers initializing mounted apps until their first request.
	LazyInit bool
	// MaxBodyBytes caps request bodies read through web.Request helpers.
	MaxBodyBytes int64
	// MaxHeaderBytes caps the bytes read for the request line and headers.
	// A request over the limit is dropped without a response.
	MaxHeaderBytes int64
	// ReadHeaderTimeout bounds reading the request line and headers. Zero
	// means no limit.
	ReadHeaderTimeout time.Duration
}

// ErrorHook is called once for every handler failure, after it has been
// logged. The response may already be in the body state. The connection is
// closed when the hook returns.
type ErrorHook func(req *web.Request, w *web.Response, err error)

// PanicError wraps a value recovered from a panicking handler.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic: %v", e.Value)
}

// Stats are the server counters.
type Stats struct {
	Started  time.Time
	Uptime   time.Duration
	Requests uint64
	Errors   uint64
	Active   int
}

// Server is the state of the listener.
type Server struct {
	app       *router.App
	config    Config
	logger    logrus.FieldLogger
	ErrorHook ErrorHook

	started  time.Time
	nextID   atomic.Uint64
	requests atomic.Uint64
	errors   atomic.Uint64

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
}

// New creates a server for app. Routes and mounts must be registered before
// Serve is called.
func New(app *router.App, config Config, logger logrus.FieldLogger) *Server {
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = web.DefaultMaxBodyBytes
	}
	if config.MaxHeaderBytes <= 0 {
		config.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		app:     app,
		config:  config,
		logger:  logger,
		started: time.Now(),
		conns:   make(map[net.Conn]struct{}),
	}
}

// ListenAndServe listens on the configured TCP address and serves it.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Addr, err)
	}
	return s.Serve(ln)
}

// Serve initializes the app tree and accepts connections on l until Close is
// called or Accept fails permanently.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		l.Close()
		return ErrServerClosed
	}
	s.listener = l
	s.mu.Unlock()
	defer l.Close()

	s.app.Init()
	if !s.config.LazyInit {
		s.app.InitMounts()
	}

	if s.config.Debug > 0 {
		s.logger.WithField("addr", l.Addr().String()).Info("serving")
	}

	var backoff time.Duration
	for {
		rw, err := l.Accept()
		if err != nil {
			if s.isClosed() {
				return ErrServerClosed
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				if backoff == 0 {
					backoff = 5 * time.Millisecond
				} else if backoff *= 2; backoff > time.Second {
					backoff = time.Second
				}
				s.logger.WithError(err).Warnf("accept error, retrying in %v", backoff)
				time.Sleep(backoff)
				continue
			}
			return err
		}
		backoff = 0
		s.track(rw)
		go s.ServeConn(rw)
	}
}

// Close stops the listener and closes every connection being served.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for c := range s.conns {
		c.Close()
		delete(s.conns, c)
	}
	return err
}

func (s *Server) Stats() Stats {
	s.mu.Lock()
	active := len(s.conns)
	s.mu.Unlock()
	return Stats{
		Started:  s.started,
		Uptime:   time.Since(s.started),
		Requests: s.requests.Load(),
		Errors:   s.errors.Load(),
		Active:   active,
	}
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) track(c net.Conn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}
