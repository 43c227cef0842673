package progress

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/scriptassoc/internal/ctxlog"
)

// Socket.io event names used by Remote.
const (
	EventProgress = "progress"
	EventHalt     = "halt"
)

// Remote mirrors progress to a socket.io server and treats a "halt" event
// from it as a cancel request.
type Remote struct {
	io *socket.Socket
	h  *halter
}

// DialRemote connects to the socket.io endpoint at rawURL, waiting at most
// timeout for the connection.
func DialRemote(ctx context.Context, rawURL string, timeout time.Duration) (*Remote, error) {
	logger := ctxlog.FromContext(ctx).With("url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse progress URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("progress URL %q must include scheme and host", rawURL)
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		opts.SetPath(parsedURL.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	r := &Remote{io: io, h: newHalter()}
	connectChan := make(chan error, 1)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to progress server.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})
	io.On(types.EventName(EventHalt), func(...any) {
		logger.Warn("Halt requested by progress server.")
		r.h.halt()
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return r, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	}
}

// ReportProgress implements Surface.
func (r *Remote) ReportProgress(label string, fraction float64) {
	r.io.Emit(EventProgress, map[string]any{"label": label, "fraction": clamp(fraction)})
}

// OnCancelRequested implements Surface.
func (r *Remote) OnCancelRequested() <-chan struct{} { return r.h.ch }

// Close disconnects from the server.
func (r *Remote) Close() {
	r.io.Disconnect()
}
