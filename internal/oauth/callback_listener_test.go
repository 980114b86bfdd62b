package oauth

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intra42/internal/apierror"
)

func startListener(t *testing.T) *CallbackListener {
	t.Helper()
	l := NewCallbackListener("127.0.0.1:0", nil)
	require.NoError(t, l.Start())
	t.Cleanup(l.Stop)
	return l
}

// sendRaw dials the listener, writes payload and returns whatever it answers.
func sendRaw(t *testing.T, addr net.Addr, payload string) <-chan string {
	t.Helper()
	out := make(chan string, 1)
	go func() {
		conn, err := net.DialTimeout("tcp", addr.String(), 2*time.Second)
		if err != nil {
			out <- ""
			return
		}
		defer conn.Close()
		_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
		_, _ = conn.Write([]byte(payload))
		resp, _ := io.ReadAll(bufio.NewReader(conn))
		out <- string(resp)
	}()
	return out
}

func TestParseRequestLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantCode  string
		wantState string
		wantErr   bool
	}{
		{
			name:      "well formed redirect",
			line:      "GET /callback?code=ABC&state=XYZ HTTP/1.1\r\n",
			wantCode:  "ABC",
			wantState: "XYZ",
		},
		{
			name:      "root path as registered redirect",
			line:      "GET /?state=s1&code=c1 HTTP/1.1",
			wantCode:  "c1",
			wantState: "s1",
		},
		{
			name:      "escaped values",
			line:      "GET /?code=a%2Bb&state=x%3Dy HTTP/1.1",
			wantCode:  "a+b",
			wantState: "x=y",
		},
		{name: "missing code", line: "GET /callback?state=XYZ HTTP/1.1", wantErr: true},
		{name: "missing state", line: "GET /callback?code=ABC HTTP/1.1", wantErr: true},
		{name: "empty code", line: "GET /callback?code=&state=XYZ HTTP/1.1", wantErr: true},
		{name: "provider error", line: "GET /?error=access_denied&error_description=denied HTTP/1.1", wantErr: true},
		{name: "empty line", line: "", wantErr: true},
		{name: "method only", line: "GET", wantErr: true},
		{name: "unparseable target", line: "GET ::not-a-uri HTTP/1.1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseRequestLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apierror.ErrProtocol), "expected protocol error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, result.Code)
			assert.Equal(t, tt.wantState, result.State)
		})
	}
}

func TestCallbackListener_Success(t *testing.T) {
	l := startListener(t)

	respCh := sendRaw(t, l.Addr(), "GET /callback?code=ABC&state=XYZ HTTP/1.1\r\nHost: localhost\r\n\r\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := l.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, &CallbackResult{Code: "ABC", State: "XYZ"}, result)

	resp := <-respCh
	assert.Contains(t, resp, "HTTP/1.1 200 OK")
	assert.Contains(t, resp, "content-length: 27")
	assert.Contains(t, resp, callbackSuccessMessage)
}

func TestCallbackListener_MissingCodeFailsWithoutHanging(t *testing.T) {
	l := startListener(t)

	respCh := sendRaw(t, l.Addr(), "GET /callback?state=XYZ HTTP/1.1\r\n\r\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	_, err := l.Wait(ctx)

	require.Error(t, err)
	assert.Equal(t, apierror.KindProtocol, apierror.KindOf(err))
	assert.Less(t, time.Since(start), 4*time.Second)
	assert.Contains(t, <-respCh, "400 Bad Request")
}

func TestCallbackListener_EmptyConnectionIsTerminal(t *testing.T) {
	l := startListener(t)
	addr := l.Addr()

	go func() {
		conn, err := net.Dial("tcp", addr.String())
		if err == nil {
			conn.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := l.Wait(ctx)
	require.Error(t, err)
	assert.Equal(t, apierror.KindProtocol, apierror.KindOf(err))

	// The listener does not keep accepting after a malformed connection.
	_, dialErr := net.DialTimeout("tcp", addr.String(), time.Second)
	assert.Error(t, dialErr)
}

func TestCallbackListener_TimeoutIsReported(t *testing.T) {
	l := startListener(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := l.Wait(ctx)

	require.Error(t, err)
	assert.Equal(t, apierror.KindNetwork, apierror.KindOf(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCallbackListener_Cancellation(t *testing.T) {
	l := startListener(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := l.Wait(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCallbackListener_WaitBeforeStart(t *testing.T) {
	l := NewCallbackListener("127.0.0.1:0", nil)

	_, err := l.Wait(context.Background())

	require.Error(t, err)
	assert.Nil(t, l.Addr())
}

func TestCallbackListener_BindFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	l := NewCallbackListener(busy.Addr().String(), nil)
	err = l.Start()

	require.Error(t, err)
	assert.Equal(t, apierror.KindNetwork, apierror.KindOf(err))
}

func TestAwaitRedirect(t *testing.T) {
	// Reserve a free port, then hand it to AwaitRedirect.
	probe, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := probe.Addr().String()
	require.NoError(t, probe.Close())

	go func() {
		for i := 0; i < 50; i++ {
			conn, err := net.Dial("tcp", addr)
			if err != nil {
				time.Sleep(20 * time.Millisecond)
				continue
			}
			_, _ = conn.Write([]byte("GET /?code=c&state=s HTTP/1.1\r\n\r\n"))
			_, _ = io.ReadAll(conn)
			conn.Close()
			return
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := AwaitRedirect(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, "c", result.Code)
	assert.Equal(t, "s", result.State)
}
