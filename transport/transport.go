// Package transport carries SRD handshake messages over a TCP (optionally
// TLS) connection, framing each wire message with a 4-byte length prefix
// so a stream reader knows where one message ends and the next begins.
// This framing is purely a transport concern: it never enters the
// transcript or MAC computation, which operate on the unwrapped message
// bytes exactly as package wire produces them.
//
// The loopback-only listener binding below is adapted from the teacher's
// socks.Server.ListenAndServe, which restricts its SOCKS5 proxy to
// 127.0.0.1/::1/localhost for the same reason: a local demo binary should
// not accidentally expose its credential-delegation endpoint to the
// network.
package transport

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/cvsouth/srd-go/handshake"
)

const maxFrameSize = 1 << 20

// WriteFramed writes a single length-prefixed message.
func WriteFramed(w io.Writer, msg []byte) error {
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(msg)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("transport: write frame header: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("transport: write frame body: %w", err)
	}
	return nil
}

// ReadFramed reads a single length-prefixed message.
func ReadFramed(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("transport: read frame header: %w", err)
	}
	n := binary.LittleEndian.Uint32(hdr[:])
	if n > maxFrameSize {
		return nil, fmt.Errorf("transport: frame size %d exceeds maximum", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("transport: read frame body: %w", err)
	}
	return buf, nil
}

// RunInitiator drives sess to completion over conn, writing sess's first
// message (produced by Step(nil)) and then alternating reads and writes
// until the handshake reaches a terminal state.
func RunInitiator(conn net.Conn, sess *handshake.Session) (handshake.Outcome, error) {
	out, done, err := sess.Step(nil)
	for {
		if err != nil {
			return handshake.Outcome{}, err
		}
		if out != nil {
			if werr := WriteFramed(conn, out); werr != nil {
				return handshake.Outcome{}, werr
			}
		}
		if done {
			break
		}
		in, rerr := ReadFramed(conn)
		if rerr != nil {
			return handshake.Outcome{}, rerr
		}
		out, done, err = sess.Step(in)
	}
	outcome, ok := sess.Outcome()
	if !ok {
		return handshake.Outcome{}, fmt.Errorf("transport: session ended without an outcome")
	}
	return outcome, nil
}

// RunResponder drives sess to completion over conn, reading one inbound
// message before every Step call.
func RunResponder(conn net.Conn, sess *handshake.Session) (handshake.Outcome, error) {
	for {
		in, rerr := ReadFramed(conn)
		if rerr != nil {
			return handshake.Outcome{}, rerr
		}
		out, done, err := sess.Step(in)
		if out != nil {
			if werr := WriteFramed(conn, out); werr != nil {
				return handshake.Outcome{}, werr
			}
		}
		if err != nil {
			return handshake.Outcome{}, err
		}
		if done {
			break
		}
	}
	outcome, ok := sess.Outcome()
	if !ok {
		return handshake.Outcome{}, fmt.Errorf("transport: session ended without an outcome")
	}
	return outcome, nil
}

// validateLoopback rejects any bind address that isn't "localhost" or a
// loopback IP (any address in 127.0.0.0/8, or ::1), the same kind of
// check the teacher's socks.Server.ListenAndServe applies for its SOCKS5
// listener.
func validateLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("transport: parse listen address: %w", err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("transport: must bind to a loopback address, got %s", host)
	}
	return nil
}

// Server accepts responder connections on a loopback address, driving one
// handshake.Session per connection via NewSession.
type Server struct {
	Addr string
	// NewSession builds a fresh responder Session for each accepted
	// connection; callers typically close over a handshake.Policy and
	// primitives.Providers, deriving a per-connection channel-binding
	// value from the net.Conn when the listener is a *tls.Listener.
	NewSession func(conn net.Conn) (*handshake.Session, error)
	// OnOutcome, if set, is called after each connection's handshake
	// reaches a terminal state (or fails to).
	OnOutcome func(conn net.Conn, sess *handshake.Session, outcome handshake.Outcome, err error)
	Logger    *slog.Logger

	ln net.Listener
}

const maxConns = 256

// ListenAndServe binds Addr and serves responder connections until the
// listener is closed or Accept fails.
func (s *Server) ListenAndServe() error {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	if err := validateLoopback(s.Addr); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("transport: listen: %w", err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on a caller-supplied listener (e.g. a
// *tls.Listener wrapping a loopback net.Listener).
func (s *Server) Serve(ln net.Listener) error {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	s.ln = ln
	sem := make(chan struct{}, maxConns)
	s.Logger.Info("srd transport: listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("transport: accept: %w", err)
		}
		sem <- struct{}{}
		go func() {
			defer func() { <-sem }()
			s.handleConn(conn)
		}()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	sess, err := s.NewSession(conn)
	if err != nil {
		s.Logger.Error("srd transport: building session", "remote", conn.RemoteAddr(), "err", err)
		return
	}
	outcome, err := RunResponder(conn, sess)
	if s.OnOutcome != nil {
		s.OnOutcome(conn, sess, outcome, err)
	}
}
