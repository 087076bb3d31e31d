package manifest

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/joeydtaylor/steeze-protocol/pkg/scheme"
)

// ProtocolSpec installs one responder, either a static one built from the
// fields below or a named handler registered in code.
type ProtocolSpec struct {
	Scheme  string      `toml:"scheme"`
	Kind    HandlerKind `toml:"kind"`
	Handler string      `toml:"handler"` // named handler; static fields are ignored

	MimeType   string            `toml:"mime_type"`
	Charset    string            `toml:"charset"`
	Data       string            `toml:"data"`
	Root       string            `toml:"root"`        // file: directory request paths resolve under
	Target     string            `toml:"target"`      // http: base URL request paths are appended to
	StatusCode int               `toml:"status_code"` // stream
	Headers    map[string]string `toml:"headers"`
}

func (p *ProtocolSpec) normalize() error {
	s, ok := scheme.Normalize(p.Scheme)
	if !ok {
		return fmt.Errorf("invalid scheme %q", p.Scheme)
	}
	p.Scheme = s
	p.Kind = HandlerKind(strings.ToLower(strings.TrimSpace(string(p.Kind))))
	p.Handler = strings.TrimSpace(p.Handler)
	return nil
}

func (p *ProtocolSpec) validate() error {
	if !p.Kind.valid() {
		return fmt.Errorf("unknown kind %q", p.Kind)
	}
	if p.Handler != "" {
		return nil
	}
	switch p.Kind {
	case HandlerFile:
		if strings.TrimSpace(p.Root) == "" {
			return errors.New("root required for file")
		}
	case HandlerHTTP:
		u, err := url.Parse(p.Target)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("target %q must be an absolute URL", p.Target)
		}
	case HandlerStream:
		if p.StatusCode != 0 && (p.StatusCode < 100 || p.StatusCode > 599) {
			return fmt.Errorf("status_code %d out of range", p.StatusCode)
		}
	}
	return nil
}
