// pkg/core/build.go
package core

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/joeydtaylor/steeze-protocol/pkg/manifest"
	"github.com/joeydtaylor/steeze-protocol/pkg/protocol"
)

// BuildHandler turns a manifest entry into a handler: the named handler when
// one is referenced, otherwise a static responder for the entry's kind.
func BuildHandler(ps manifest.ProtocolSpec) (protocol.Handler, error) {
	kind, ok := protocol.ParseKind(string(ps.Kind))
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", ps.Kind)
	}
	if ps.Handler != "" {
		h, ok := Lookup(ps.Handler)
		if !ok {
			return nil, fmt.Errorf("handler %q not registered", ps.Handler)
		}
		if h.Kind() != kind {
			return nil, fmt.Errorf("handler %q is a %s handler, manifest wants %s", ps.Handler, h.Kind(), kind)
		}
		return h, nil
	}

	switch kind {
	case protocol.KindString:
		res := protocol.StringResponse{MimeType: or(ps.MimeType, "text/plain"), Charset: ps.Charset, Data: ps.Data}
		return protocol.StringHandler(func(context.Context, *protocol.Request) (protocol.StringResponse, error) {
			return res, nil
		}), nil

	case protocol.KindBuffer:
		mime, charset, data := or(ps.MimeType, "application/octet-stream"), ps.Charset, []byte(ps.Data)
		return protocol.BufferHandler(func(context.Context, *protocol.Request) (protocol.BufferResponse, error) {
			// copy so responders cannot mutate the shared payload
			return protocol.BufferResponse{MimeType: mime, Charset: charset, Data: append([]byte(nil), data...)}, nil
		}), nil

	case protocol.KindFile:
		root, hdrs := ps.Root, toHeader(ps.Headers)
		return protocol.FileHandler(func(_ context.Context, req *protocol.Request) (protocol.FileResponse, error) {
			return protocol.FileResponse{Path: filePath(root, req), Headers: hdrs.Clone()}, nil
		}), nil

	case protocol.KindHTTP:
		target := strings.TrimRight(ps.Target, "/")
		return protocol.HTTPHandler(func(_ context.Context, req *protocol.Request) (protocol.FetchResponse, error) {
			return protocol.FetchResponse{
				URL:        fetchURL(target, req),
				Method:     or(req.Method, http.MethodGet),
				Referrer:   req.Referrer,
				UploadData: req.UploadData,
			}, nil
		}), nil

	case protocol.KindStream:
		status, hdrs, data := ps.StatusCode, toHeader(ps.Headers), ps.Data
		if status == 0 {
			status = http.StatusOK
		}
		if ps.MimeType != "" {
			hdrs.Set("Content-Type", ps.MimeType)
		}
		return protocol.StreamHandler(func(context.Context, *protocol.Request) (protocol.StreamResponse, error) {
			return protocol.StreamResponse{StatusCode: status, Headers: hdrs.Clone(), Data: io.NopCloser(strings.NewReader(data))}, nil
		}), nil
	}
	return nil, fmt.Errorf("unknown kind %q", ps.Kind)
}

// filePath maps scheme://host/p to root/host/p; the rooted Clean keeps ".."
// from escaping root.
func filePath(root string, req *protocol.Request) string {
	if req == nil || req.URL == nil {
		return filepath.Clean(root)
	}
	rel := path.Clean("/" + req.URL.Host + "/" + req.URL.Path)
	return filepath.Join(root, filepath.FromSlash(rel))
}

func fetchURL(target string, req *protocol.Request) string {
	if req == nil || req.URL == nil {
		return target
	}
	out := target + "/" + strings.TrimLeft(req.URL.Host+req.URL.EscapedPath(), "/")
	if req.URL.RawQuery != "" {
		out += "?" + req.URL.RawQuery
	}
	return out
}

func toHeader(m map[string]string) http.Header {
	h := http.Header{}
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}

func or(s, def string) string {
	if s != "" {
		return s
	}
	return def
}
