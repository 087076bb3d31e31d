package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeydtaylor/steeze-protocol/pkg/protocol"
	"github.com/joeydtaylor/steeze-protocol/pkg/scheme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestTOML = `
[server]
service = "desk"

[[scheme]]
names = ["app"]

[[scheme]]
names = ["plain"]
standard = false
allow_service_workers = false

[[protocol]]
scheme = "app"
kind = "string"
data = "hello"

[[protocol]]
scheme = "plain"
kind = "string"
handler = "load-test-plain"

[[intercept]]
scheme = "http"
kind = "buffer"
data = "offline"
`

func TestLoadConfig(t *testing.T) {
	Register("load-test-plain", str("plain"))
	path := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte(manifestTOML), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Protocols, 2)
	assert.Len(t, cfg.Intercepts, 1)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseConfig_UnknownNamedHandler(t *testing.T) {
	_, err := ParseConfig([]byte(`
[[protocol]]
scheme = "app"
kind = "string"
handler = "load-test-missing"
`))
	assert.ErrorContains(t, err, `handler "load-test-missing" not registered`)
}

func TestApply_FullManifest(t *testing.T) {
	Register("load-test-plain", str("plain"))
	cfg, err := ParseConfig([]byte(manifestTOML))
	require.NoError(t, err)

	h := newHarness(t)
	require.NoError(t, h.p.DeclareSchemes(cfg))
	h.schemes.MarkReady()

	assert.Equal(t, []string{"app"}, h.p.GetStandardSchemes())
	assert.False(t, h.schemes.IsServiceWorkerScheme("plain"))
	assert.True(t, h.schemes.IsSecure("plain"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.p.InstallProtocols(ctx, cfg))

	assert.Equal(t, "hello", serveString(t, resolve(t, h, "app://x"), "app://x"))
	assert.Equal(t, "plain", serveString(t, resolve(t, h, "plain://x"), "plain://x"))
	assert.Equal(t, protocol.SourceIntercepted, resolve(t, h, "http://example.com").Source)

	// declaring again after ready fails synchronously
	assert.Error(t, h.p.DeclareSchemes(cfg))
	// a second install collides on the interceptor only
	err = h.p.InstallProtocols(ctx, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, protocol.ErrIntercepted))
	assert.Contains(t, err.Error(), "intercept http")
}

func TestInstallProtocols_RouterGone(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[[protocol]]
scheme = "app"
kind = "string"
`))
	require.NoError(t, err)

	h := newHarness(t)
	require.NoError(t, h.router.Stop(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = h.p.InstallProtocols(ctx, cfg)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestApply_MarksReady(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[[scheme]]
names = ["app"]

[[protocol]]
scheme = "app"
kind = "string"
data = "ok"
`))
	require.NoError(t, err)

	h := newHarness(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.p.Apply(ctx, cfg))

	assert.True(t, h.schemes.IsReady())
	assert.Equal(t, "ok", serveString(t, resolve(t, h, "app://x"), "app://x"))
	assert.ErrorIs(t, h.p.Apply(ctx, cfg), scheme.ErrDeclaredAfterReady)
}
