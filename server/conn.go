package server

import (
	"bufio"
	"errors"
	"io"
	"math"
	"net"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smarthome/camserve/router"
	"github.com/smarthome/camserve/routing"
	"github.com/smarthome/camserve/web"
)

const connReadBufSize = 1 << 10

// trackedConn leaves the server's connection set when it is closed, whether
// by the dispatcher or by a handler that kept it open.
type trackedConn struct {
	net.Conn
	s *Server
}

func (c *trackedConn) Close() error {
	c.s.untrack(c.Conn)
	return c.Conn.Close()
}

// ServeConn runs one connection to completion: request line, route
// resolution, header phase, handler, close. Failures never leave this call.
func (s *Server) ServeConn(c net.Conn) {
	id := s.nextID.Add(1)
	log := s.logger.WithFields(logrus.Fields{
		"conn":   id,
		"remote": c.RemoteAddr().String(),
	})

	tc := &trackedConn{Conn: c, s: s}

	closeConn := true
	defer func() {
		if !closeConn {
			return
		}
		if err := tc.Close(); err != nil && s.config.Debug > 0 {
			log.WithError(err).Debug("close connection")
		}
	}()

	if s.config.ReadHeaderTimeout > 0 {
		c.SetReadDeadline(time.Now().Add(s.config.ReadHeaderTimeout))
	}

	// The request line and header block share one byte budget. The limit is
	// lifted before the handler reads the body.
	lr := &io.LimitedReader{R: c, N: s.config.MaxHeaderBytes}
	br := bufio.NewReaderSize(lr, connReadBufSize)
	req := web.NewRequest(br)
	tp := req.TextReader()

	line, err := tp.ReadLine()
	if err != nil {
		if s.config.Debug >= 0 {
			switch {
			case lr.N <= 0:
				log.Warn("request header too large")
			case errors.Is(err, io.EOF):
				log.Warn("EOF on request start")
			default:
				log.WithError(err).Warn("read request line")
			}
		}
		return
	}

	method, target, proto, err := web.ParseRequestLine(line)
	if err != nil {
		if s.config.Debug >= 0 {
			if lr.N <= 0 {
				log.Warn("request header too large")
			} else {
				log.WithError(err).Warn("protocol error")
			}
		}
		return
	}
	req.Method = method
	req.Proto = proto
	req.SetTarget(target)
	req.ConnID = id
	req.RemoteAddr = c.RemoteAddr().String()
	req.MaxBodyBytes = s.config.MaxBodyBytes

	log = log.WithFields(logrus.Fields{"method": method, "path": req.Path})
	if s.config.Debug >= 0 {
		log.Info("request")
	}
	s.requests.Add(1)

	w := web.NewResponse(tc)
	res, err := s.resolve(req.Path)
	if err != nil {
		s.handleErr(log, req, w, err)
		return
	}

	switch res.HeaderMode {
	case routing.HeadersSkip:
		err = web.SkipHeaders(tp)
	case routing.HeadersParse:
		err = web.ReadHeaders(tp, req.Headers, func(perr *web.ProtocolError) {
			if s.config.Debug >= 0 {
				log.WithError(perr).Warn("protocol error")
			}
		})
	}
	if err != nil {
		if lr.N <= 0 {
			if s.config.Debug >= 0 {
				log.Warn("request header too large")
			}
		} else if s.config.Debug > 0 {
			log.WithError(err).Debug("read headers")
		}
		return
	}
	if s.config.ReadHeaderTimeout > 0 {
		c.SetReadDeadline(time.Time{})
	}
	lr.N = math.MaxInt64

	if !res.Found() {
		if err := web.HTTPError(w, web.StatusNotFound); err != nil && s.config.Debug > 0 {
			log.WithError(err).Debug("write not found")
		}
		return
	}

	req.Path = res.Path
	req.Match = res.Match

	closeConn, err = s.invoke(res.Route.Handler, req, w)
	if err != nil {
		closeConn = true
		s.handleErr(log, req, w, err)
	}

	if s.config.Debug > 1 {
		log.Debug("finished processing request")
	}
}

// resolve runs route resolution, which may initialize a mounted app and so
// run its init hooks, with the same panic recovery as a handler.
func (s *Server) resolve(path string) (res router.Resolution, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return s.app.Resolve(path), nil
}

func (s *Server) invoke(h web.Handler, req *web.Request, w *web.Response) (closeConn bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			closeConn = true
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return h.ServeWeb(req, w)
}

// handleErr logs a handler failure and passes it to the hook. A failure that
// is just the peer going away is logged at debug and not counted.
func (s *Server) handleErr(log logrus.FieldLogger, req *web.Request, w *web.Response, err error) {
	if werr := w.Err(); werr != nil && errors.Is(err, werr) {
		if s.config.Debug > 0 {
			log.WithError(err).Debug("peer went away")
		}
		return
	}

	s.errors.Add(1)
	if s.config.Debug >= 0 {
		entry := log.WithError(err)
		var perr *PanicError
		if errors.As(err, &perr) && s.config.Debug > 0 {
			entry = entry.WithField("stack", string(perr.Stack))
		}
		entry.Error("handler failed")
	}

	if s.ErrorHook == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil && s.config.Debug >= 0 {
			log.WithField("panic", r).Error("error hook panicked")
		}
	}()
	s.ErrorHook(req, w, err)
}
