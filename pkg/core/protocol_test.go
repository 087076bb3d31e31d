package core

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeydtaylor/steeze-protocol/pkg/dispatch"
	"github.com/joeydtaylor/steeze-protocol/pkg/protocol"
	"github.com/joeydtaylor/steeze-protocol/pkg/scheme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type harness struct {
	p       *Protocol
	router  *protocol.Router
	control *dispatch.Loop
	schemes *scheme.Table
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := zaptest.NewLogger(t)
	h := &harness{
		router:  protocol.NewRouter(protocol.NewTable(), log),
		control: dispatch.NewLoop("control", log),
		schemes: scheme.NewTable(),
	}
	h.router.Start()
	h.control.Start()
	h.p = NewProtocol(h.router, h.control, h.schemes, log)
	t.Cleanup(func() {
		h.p.Close()
		_ = h.router.Stop(context.Background())
		_ = h.control.Stop(context.Background())
	})
	return h
}

// await runs call and waits for its completion.
func await(t *testing.T, call func(Completion)) error {
	t.Helper()
	ch := make(chan error, 1)
	call(func(err error) { ch <- err })
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("completion not delivered")
		return nil
	}
}

func handled(t *testing.T, p *Protocol, s string) bool {
	t.Helper()
	ch := make(chan bool, 1)
	p.IsProtocolHandled(s, func(h bool) { ch <- h })
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("query not answered")
		return false
	}
}

func str(data string) protocol.StringHandler {
	return func(context.Context, *protocol.Request) (protocol.StringResponse, error) {
		return protocol.StringResponse{MimeType: "text/plain", Data: data}, nil
	}
}

func resolve(t *testing.T, h *harness, rawURL string) protocol.Resolution {
	t.Helper()
	res, ok := h.router.ResolveURL(context.Background(), rawURL)
	require.True(t, ok)
	return res
}

func serveString(t *testing.T, res protocol.Resolution, rawURL string) string {
	t.Helper()
	sh, ok := res.Handler.(protocol.StringHandler)
	require.True(t, ok, "expected a string handler, got %T", res.Handler)
	req, err := protocol.NewRequest(rawURL)
	require.NoError(t, err)
	out, err := sh(context.Background(), req)
	require.NoError(t, err)
	return out.Data
}

func TestRegister_MakesSchemeHandled(t *testing.T) {
	h := newHarness(t)
	assert.False(t, handled(t, h.p, "app"))

	err := await(t, func(done Completion) { h.p.RegisterStringProtocol("app", str("hello"), done) })
	require.NoError(t, err)
	assert.True(t, handled(t, h.p, "app"))
}

func TestRegister_TwiceKeepsLatest(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, await(t, func(done Completion) { h.p.RegisterStringProtocol("app", str("h1"), done) }))
	require.NoError(t, await(t, func(done Completion) { h.p.RegisterStringProtocol("app", str("h2"), done) }))

	assert.Equal(t, "h2", serveString(t, resolve(t, h, "app://x"), "app://x"))

	rep, ok := h.router.Post(context.Background(), protocol.Op{Kind: protocol.OpList})
	require.True(t, ok)
	assert.Equal(t, []string{"app"}, rep.Registered)
}

func TestUnregister_NotRegistered(t *testing.T) {
	h := newHarness(t)
	err := await(t, func(done Completion) { h.p.UnregisterProtocol("app", done) })

	require.Error(t, err)
	assert.True(t, errors.Is(err, protocol.ErrNotRegistered))
	assert.Equal(t, "The scheme has not been registered", err.Error())
	assert.False(t, handled(t, h.p, "app"))
}

func TestIntercept_SecondFails(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, await(t, func(done Completion) { h.p.InterceptStringProtocol("app", str("h1"), done) }))

	err := await(t, func(done Completion) { h.p.InterceptStringProtocol("app", str("h2"), done) })
	require.Error(t, err)
	assert.True(t, errors.Is(err, protocol.ErrIntercepted))
	assert.Equal(t, "The scheme has been intercepted", err.Error())

	assert.Equal(t, "h1", serveString(t, resolve(t, h, "app://x"), "app://x"))
}

func TestUnintercept_FallsBack(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, await(t, func(done Completion) { h.p.RegisterStringProtocol("app", str("registered"), done) }))
	require.NoError(t, await(t, func(done Completion) { h.p.InterceptStringProtocol("app", str("shadow"), done) }))
	require.NoError(t, await(t, func(done Completion) { h.p.UninterceptProtocol("app", done) }))

	assert.Equal(t, "registered", serveString(t, resolve(t, h, "app://x"), "app://x"))

	require.NoError(t, await(t, func(done Completion) { h.p.InterceptStringProtocol("https", str("shadow"), done) }))
	require.NoError(t, await(t, func(done Completion) { h.p.UninterceptProtocol("https", done) }))
	assert.Equal(t, protocol.SourceBuiltIn, resolve(t, h, "https://example.com").Source)

	err := await(t, func(done Completion) { h.p.UninterceptProtocol("https", done) })
	assert.True(t, errors.Is(err, protocol.ErrNotIntercepted))
}

func TestRoundTrip(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, await(t, func(done Completion) { h.p.RegisterStringProtocol("app", str("x"), done) }))
	require.NoError(t, await(t, func(done Completion) { h.p.UnregisterProtocol("app", done) }))
	assert.False(t, handled(t, h.p, "app"))

	require.NoError(t, await(t, func(done Completion) { h.p.RegisterStringProtocol("file", str("x"), done) }))
	require.NoError(t, await(t, func(done Completion) { h.p.UnregisterProtocol("file", done) }))
	assert.True(t, handled(t, h.p, "file"))
}

func TestDeclareAfterReady_RejectedSynchronously(t *testing.T) {
	h := newHarness(t)
	h.schemes.MarkReady()

	err := h.p.RegisterSchemesAsPrivileged([]string{"app"}, scheme.Options{Standard: true})
	require.ErrorIs(t, err, scheme.ErrDeclaredAfterReady)
	assert.Empty(t, h.p.GetStandardSchemes())
	assert.False(t, h.schemes.IsStandard("app"))
}

func TestScenario_AppSchemeServesHello(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.p.RegisterSchemesAsPrivileged([]string{"app"}, scheme.DefaultOptions()))
	assert.Equal(t, []string{"app"}, h.p.GetStandardSchemes())

	require.NoError(t, await(t, func(done Completion) { h.p.RegisterStringProtocol("app", str("hello"), done) }))

	res := resolve(t, h, "app://x")
	assert.Equal(t, protocol.SourceRegistered, res.Source)
	assert.Equal(t, "hello", serveString(t, res, "app://x"))
}

func TestScenario_InterceptHTTPWithBuffer(t *testing.T) {
	h := newHarness(t)
	buf := protocol.BufferHandler(func(context.Context, *protocol.Request) (protocol.BufferResponse, error) {
		return protocol.BufferResponse{MimeType: "text/html", Data: []byte("<p>offline</p>")}, nil
	})
	require.NoError(t, await(t, func(done Completion) { h.p.InterceptBufferProtocol("http", buf, done) }))

	res := resolve(t, h, "http://example.com")
	assert.Equal(t, protocol.SourceIntercepted, res.Source)
	assert.Equal(t, protocol.KindBuffer, res.Handler.Kind())
}

func TestEveryStrategyRegisters(t *testing.T) {
	h := newHarness(t)
	file := protocol.FileHandler(func(context.Context, *protocol.Request) (protocol.FileResponse, error) {
		return protocol.FileResponse{}, nil
	})
	fetch := protocol.HTTPHandler(func(context.Context, *protocol.Request) (protocol.FetchResponse, error) {
		return protocol.FetchResponse{}, nil
	})
	stream := protocol.StreamHandler(func(context.Context, *protocol.Request) (protocol.StreamResponse, error) {
		return protocol.StreamResponse{}, nil
	})
	buf := protocol.BufferHandler(func(context.Context, *protocol.Request) (protocol.BufferResponse, error) {
		return protocol.BufferResponse{}, nil
	})

	require.NoError(t, await(t, func(d Completion) { h.p.RegisterBufferProtocol("s-buffer", buf, d) }))
	require.NoError(t, await(t, func(d Completion) { h.p.RegisterFileProtocol("s-file", file, d) }))
	require.NoError(t, await(t, func(d Completion) { h.p.RegisterHttpProtocol("s-http", fetch, d) }))
	require.NoError(t, await(t, func(d Completion) { h.p.RegisterStreamProtocol("s-stream", stream, d) }))
	require.NoError(t, await(t, func(d Completion) { h.p.InterceptFileProtocol("s-file", file, d) }))
	require.NoError(t, await(t, func(d Completion) { h.p.InterceptHttpProtocol("s-http", fetch, d) }))
	require.NoError(t, await(t, func(d Completion) { h.p.InterceptStreamProtocol("s-stream", stream, d) }))

	assert.Equal(t, protocol.KindFile, resolve(t, h, "s-file://a").Handler.Kind())
	assert.Equal(t, protocol.KindHTTP, resolve(t, h, "s-http://a").Handler.Kind())
	assert.Equal(t, protocol.KindStream, resolve(t, h, "s-stream://a").Handler.Kind())
	assert.Equal(t, protocol.SourceRegistered, resolve(t, h, "s-buffer://a").Source)
}

func TestNilHandlerFails(t *testing.T) {
	h := newHarness(t)
	var nilString protocol.StringHandler
	err := await(t, func(done Completion) { h.p.RegisterStringProtocol("app", nilString, done) })
	assert.True(t, errors.Is(err, protocol.ErrFail))
	assert.Equal(t, "Failed to manipulate protocol factory", err.Error())
}

func TestFireAndForget(t *testing.T) {
	h := newHarness(t)
	h.p.RegisterStringProtocol("app", str("x"), nil)
	assert.Eventually(t, func() bool {
		rep, ok := h.router.Post(context.Background(), protocol.Op{Kind: protocol.OpIsHandled, Scheme: "app"})
		return ok && rep.Handled
	}, 2*time.Second, 10*time.Millisecond)
}

func TestShutdown_DropsCompletions(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.router.Stop(context.Background()))

	var called atomic.Bool
	h.p.RegisterStringProtocol("app", str("x"), func(error) { called.Store(true) })
	h.p.UnregisterProtocol("app", func(error) { called.Store(true) })

	// the query still answers, degraded to false
	assert.False(t, handled(t, h.p, "app"))
	time.Sleep(50 * time.Millisecond)
	assert.False(t, called.Load())
}

func TestClose_DropsCompletions(t *testing.T) {
	h := newHarness(t)
	h.p.Close()

	var called atomic.Bool
	h.p.RegisterStringProtocol("app", str("x"), func(error) { called.Store(true) })

	// the table still changes; only the notification is dropped
	assert.Eventually(t, func() bool {
		rep, ok := h.router.Post(context.Background(), protocol.Op{Kind: protocol.OpIsHandled, Scheme: "app"})
		return ok && rep.Handled
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.False(t, called.Load())
}
