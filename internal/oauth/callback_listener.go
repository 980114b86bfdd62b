package oauth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"intra42/internal/apierror"
)

// requestReadTimeout bounds how long an accepted connection may take to send
// its request line.
const requestReadTimeout = 10 * time.Second

const maxHeaderLines = 100

const (
	callbackSuccessMessage = "Go back to your terminal :)"
	callbackFailureMessage = "Authorization failed, check your terminal."
)

// CallbackResult is what the provider's redirect carried back.
type CallbackResult struct {
	// Code is the authorization code from the OAuth provider.
	Code string

	// State is the state parameter to verify against the original request.
	State string
}

// CallbackListener is a single-shot local listener for the authorization
// redirect. It binds once, accepts exactly one connection, answers it and
// stops. A malformed first connection is a terminal failure; the listener
// does not keep waiting for a well-formed one.
type CallbackListener struct {
	bindAddress string
	logger      *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	once     sync.Once
}

// NewCallbackListener creates a listener for bindAddress (host:port).
func NewCallbackListener(bindAddress string, logger *slog.Logger) *CallbackListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &CallbackListener{
		bindAddress: bindAddress,
		logger:      logger,
	}
}

// Start binds the listening socket.
func (l *CallbackListener) Start() error {
	listener, err := net.Listen("tcp", l.bindAddress)
	if err != nil {
		return apierror.Network("callback listener", fmt.Errorf("failed to listen on %s: %w", l.bindAddress, err))
	}

	l.mu.Lock()
	l.listener = listener
	l.mu.Unlock()

	l.logger.Debug("Callback listener started", "address", listener.Addr().String())
	return nil
}

// Addr returns the bound address, or nil before Start.
func (l *CallbackListener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listener == nil {
		return nil
	}
	return l.listener.Addr()
}

// Wait accepts one connection and extracts the redirect's code and state.
// The listener is closed when Wait returns. Cancelling ctx, or its deadline
// expiring, aborts the wait with a Network-class error.
func (l *CallbackListener) Wait(ctx context.Context) (*CallbackResult, error) {
	const op = "callback listener"

	l.mu.Lock()
	listener := l.listener
	l.mu.Unlock()
	if listener == nil {
		return nil, apierror.Network(op, errors.New("listener not started"))
	}
	defer l.Stop()

	type accepted struct {
		conn net.Conn
		err  error
	}
	acceptCh := make(chan accepted, 1)
	go func() {
		conn, err := listener.Accept()
		acceptCh <- accepted{conn: conn, err: err}
	}()

	var conn net.Conn
	select {
	case <-ctx.Done():
		l.Stop()
		// Drain so a connection that raced the cancellation is not leaked.
		if a := <-acceptCh; a.conn != nil {
			a.conn.Close()
		}
		return nil, apierror.Network(op, fmt.Errorf("waiting for authorization redirect: %w", ctx.Err()))
	case a := <-acceptCh:
		if a.err != nil {
			return nil, apierror.Network(op, fmt.Errorf("accept failed: %w", a.err))
		}
		conn = a.conn
	}
	defer conn.Close()

	deadline := time.Now().Add(requestReadTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	reader := bufio.NewReader(conn)
	line, readErr := reader.ReadString('\n')
	if readErr != nil && !errors.Is(readErr, io.EOF) {
		if ctx.Err() != nil {
			return nil, apierror.Network(op, fmt.Errorf("waiting for authorization redirect: %w", ctx.Err()))
		}
		writeCallbackResponse(conn, "400 Bad Request", callbackFailureMessage)
		return nil, apierror.Protocol(op, fmt.Errorf("failed to read request line: %w", readErr))
	}

	if readErr == nil {
		drainHeaders(reader)
	}

	result, err := ParseRequestLine(line)
	if err != nil {
		writeCallbackResponse(conn, "400 Bad Request", callbackFailureMessage)
		return nil, err
	}

	writeCallbackResponse(conn, "200 OK", callbackSuccessMessage)

	l.logger.Debug("Authorization redirect received",
		"code_len", len(result.Code),
		"state_len", len(result.State),
	)
	return result, nil
}

// Stop closes the listening socket. It is safe to call more than once.
func (l *CallbackListener) Stop() {
	l.once.Do(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.listener != nil {
			_ = l.listener.Close()
		}
	})
}

// AwaitRedirect binds bindAddress, waits for exactly one redirect and returns
// its code and state.
func AwaitRedirect(ctx context.Context, bindAddress string) (*CallbackResult, error) {
	l := NewCallbackListener(bindAddress, nil)
	if err := l.Start(); err != nil {
		return nil, err
	}
	return l.Wait(ctx)
}

// ParseRequestLine parses an HTTP request line such as
// "GET /callback?code=ABC&state=XYZ HTTP/1.1" and extracts the code and state
// query parameters. Missing pieces fail with a Protocol-class error.
func ParseRequestLine(line string) (*CallbackResult, error) {
	const op = "parse authorization redirect"

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, apierror.Protocolf(op, "missing or malformed request line %q", strings.TrimSpace(line))
	}

	target, err := url.ParseRequestURI(fields[1])
	if err != nil {
		return nil, apierror.Protocol(op, fmt.Errorf("invalid request target: %w", err))
	}

	query := target.Query()
	if providerErr := query.Get("error"); providerErr != "" {
		if desc := query.Get("error_description"); desc != "" {
			return nil, apierror.Protocolf(op, "authorization denied: %s - %s", providerErr, desc)
		}
		return nil, apierror.Protocolf(op, "authorization denied: %s", providerErr)
	}

	code := query.Get("code")
	if code == "" {
		return nil, apierror.Protocolf(op, "redirect is missing the code parameter")
	}
	state := query.Get("state")
	if state == "" {
		return nil, apierror.Protocolf(op, "redirect is missing the state parameter")
	}

	return &CallbackResult{Code: code, State: state}, nil
}

// drainHeaders consumes the rest of the request head so closing the
// connection does not reset it before the browser reads the response.
func drainHeaders(r *bufio.Reader) {
	for i := 0; i < maxHeaderLines; i++ {
		line, err := r.ReadString('\n')
		if err != nil || line == "\r\n" || line == "\n" {
			return
		}
	}
}

func writeCallbackResponse(w io.Writer, status, message string) {
	_, _ = fmt.Fprintf(w, "HTTP/1.1 %s\r\ncontent-length: %d\r\ncontent-type: text/plain; charset=utf-8\r\nconnection: close\r\n\r\n%s",
		status, len(message), message)
}
