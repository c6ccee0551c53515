// Package server implements the bounded worker pool that accepts
// connections from the listener and hands each one to the front-end
// handler in a worker goroutine, and the graceful-shutdown orchestration
// around it.
package server

import (
	"context"
	"log/slog"
	"net"
	"sync"

	"github.com/parsec-io/parsec-core/internal/authn"
	"github.com/parsec-io/parsec-core/internal/frontend"
)

// ConnHandler is the signature of a handler for exactly one connection's
// single request/response pair. Pool does not use it: handle calls
// Frontend.HandleConnection directly.
type ConnHandler func(ctx context.Context, conn net.Conn, transport authn.TransportInfo) error

// Pool is a fixed-size goroutine pool fed by a buffered channel of
// accepted connections: Serve blocks accepting from the listener and
// feeding the channel, while Size workers drain it concurrently. Shutdown
// is cooperative, via context cancellation plus a WaitGroup drain.
type Pool struct {
	Size      int
	Frontend  *frontend.Handler
	Log       *slog.Logger
	PeerCreds func(conn net.Conn) authn.TransportInfo

	conns chan net.Conn
	wg    sync.WaitGroup
}

// New returns a Pool of the given size wired to handler.
func New(size int, fe *frontend.Handler, log *slog.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pool{
		Size:     size,
		Frontend: fe,
		Log:      log,
		conns:    make(chan net.Conn, size*4),
	}
}

// Serve accepts connections from ln until ctx is cancelled or Accept
// fails, handing each to a worker. It blocks until every in-flight
// connection has been handled and every worker has exited.
func (p *Pool) Serve(ctx context.Context, ln net.Listener) error {
	for i := 0; i < p.Size; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	var acceptErr error
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				acceptErr = nil
			} else {
				acceptErr = err
			}
			break
		}
		select {
		case p.conns <- conn:
		case <-ctx.Done():
			_ = conn.Close()
		}
	}

	close(p.conns)
	p.wg.Wait()
	return acceptErr
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for conn := range p.conns {
		p.handle(ctx, conn)
	}
}

func (p *Pool) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	transport := authn.TransportInfo{}
	if p.PeerCreds != nil {
		transport = p.PeerCreds(conn)
	}

	if err := p.Frontend.HandleConnection(ctx, conn, transport); err != nil {
		p.Log.Warn("connection handling failed", "remote", conn.RemoteAddr(), "error", err)
	}
}
