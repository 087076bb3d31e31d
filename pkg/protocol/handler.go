// pkg/protocol/handler.go
package protocol

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Kind names the responder strategy a handler uses.
type Kind int

const (
	KindString Kind = iota + 1
	KindBuffer
	KindFile
	KindHTTP
	KindStream
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBuffer:
		return "buffer"
	case KindFile:
		return "file"
	case KindHTTP:
		return "http"
	case KindStream:
		return "stream"
	default:
		return "unknown"
	}
}

// ParseKind maps a manifest kind name to a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range []Kind{KindString, KindBuffer, KindFile, KindHTTP, KindStream} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Request is what a handler sees for one request on its scheme.
type Request struct {
	URL        *url.URL
	Method     string
	Referrer   string
	Header     http.Header
	UploadData []byte
}

// NewRequest parses rawURL into a GET request.
func NewRequest(rawURL string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return &Request{URL: u, Method: http.MethodGet, Header: http.Header{}}, nil
}

// Response payloads. Each strategy carries only what its responder needs to
// produce bytes; the registry never looks inside them.

type StringResponse struct {
	MimeType string
	Charset  string
	Data     string
}

type BufferResponse struct {
	MimeType string
	Charset  string
	Data     []byte
}

type FileResponse struct {
	Path    string
	Headers http.Header
}

type FetchResponse struct {
	URL        string
	Method     string
	Referrer   string
	UploadData []byte
}

type StreamResponse struct {
	StatusCode int
	Headers    http.Header
	Data       io.ReadCloser
}

// Handler is a caller-supplied responder. The set of implementations is
// closed: one function type per Kind.
type Handler interface {
	Kind() Kind
	sealed()
}

type StringHandler func(ctx context.Context, req *Request) (StringResponse, error)
type BufferHandler func(ctx context.Context, req *Request) (BufferResponse, error)
type FileHandler func(ctx context.Context, req *Request) (FileResponse, error)
type HTTPHandler func(ctx context.Context, req *Request) (FetchResponse, error)
type StreamHandler func(ctx context.Context, req *Request) (StreamResponse, error)

func (StringHandler) Kind() Kind { return KindString }
func (BufferHandler) Kind() Kind { return KindBuffer }
func (FileHandler) Kind() Kind   { return KindFile }
func (HTTPHandler) Kind() Kind   { return KindHTTP }
func (StreamHandler) Kind() Kind { return KindStream }

func (StringHandler) sealed() {}
func (BufferHandler) sealed() {}
func (FileHandler) sealed()   {}
func (HTTPHandler) sealed()   {}
func (StreamHandler) sealed() {}

// IsNil reports a nil handler, including a typed-nil function in the interface.
func IsNil(h Handler) bool {
	switch f := h.(type) {
	case nil:
		return true
	case StringHandler:
		return f == nil
	case BufferHandler:
		return f == nil
	case FileHandler:
		return f == nil
	case HTTPHandler:
		return f == nil
	case StreamHandler:
		return f == nil
	}
	return true
}
