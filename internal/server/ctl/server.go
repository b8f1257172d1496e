package ctl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
)

// Version identifies the control protocol implementation in ping replies.
const Version = "0.1.0"

// ServerConfig represents the control listener configuration.
type ServerConfig struct {
	Addr string `help:"Control API listen address" default:"127.0.0.1:3843" env:"HIDMUX_CTL_ADDR"`
}

// Server serves the control API over TCP.
type Server struct {
	addr   string
	ln     net.Listener
	logger *slog.Logger
	router *Router
}

// New creates a control server; register handlers on Router before Start.
func New(config ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		addr:   config.Addr,
		logger: logger,
		router: NewRouter(),
	}
}

// Router returns the router so callers can register handlers.
func (s *Server) Router() *Router { return s.router }

// Start listens on the configured address and serves incoming commands.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.logger.Info("control API listening", "addr", s.addr)
	go s.serve()
	return nil
}

// Addr returns the bound listener address, useful when Addr was ":0".
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Close stops the control server.
func (s *Server) Close() {
	if s.ln != nil {
		_ = s.ln.Close()
	}
}

func (s *Server) serve() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.logger.Info("control API stopped")
				return
			}
			s.logger.Info("control API accept error", "error", err)
			return
		}
		go s.handleConn(c)
	}
}

func (s *Server) writeError(w io.Writer, err error) {
	problemJSON, _ := json.Marshal(WrapError(err))
	fmt.Fprintf(w, "%s\n", string(problemJSON))
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	connCtx, connCancel := context.WithCancel(context.Background())
	defer connCancel()

	connLogger := s.logger.With("remote", conn.RemoteAddr().String())

	// One request per connection, terminated by \x00 so the payload may
	// contain newlines.
	reqData, err := bufio.NewReader(conn).ReadString('\x00')
	if err != nil {
		if err == io.EOF {
			connLogger.Error("ctl incomplete request (no null terminator)")
		} else {
			connLogger.Error("ctl read request", "error", err)
		}
		return
	}
	reqData = strings.TrimSuffix(reqData, "\x00")

	path, payload, _ := strings.Cut(reqData, " ")
	if path == "" {
		connLogger.Error("ctl empty path")
		s.writeError(conn, ErrBadRequest("empty request"))
		return
	}
	connLogger.Debug("ctl cmd", "path", path)

	h, params := s.router.Match(path)
	if h == nil {
		connLogger.Error("ctl unknown path", "path", path)
		s.writeError(conn, ErrNotFound(fmt.Sprintf("unknown path: %s", path)))
		return
	}

	req := &Request{Ctx: connCtx, Params: params, Payload: payload}
	res := &Response{}
	if err := h(req, res, connLogger); err != nil {
		connLogger.Error("ctl handler error", "path", path, "error", err)
		s.writeError(conn, err)
		return
	}
	if res.JSON == "" {
		fmt.Fprintln(conn)
	} else {
		fmt.Fprintf(conn, "%s\n", res.JSON)
	}
}
