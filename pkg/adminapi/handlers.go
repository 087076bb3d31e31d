package adminapi

import (
	"net/http"

	"github.com/joeydtaylor/steeze-protocol/pkg/codec"
	"github.com/joeydtaylor/steeze-protocol/pkg/protocol"
	"github.com/joeydtaylor/steeze-protocol/pkg/scheme"
	"github.com/joeydtaylor/steeze-protocol/pkg/transport/httpx"
)

type errorBody struct {
	Error string `json:"error"`
}

// ProtocolView describes how one scheme is served.
type ProtocolView struct {
	Scheme string `json:"scheme"`
	Served bool   `json:"served"`
	Source string `json:"source"`
	Kind   string `json:"kind,omitempty"`

	Standard bool `json:"standard"`
	Secure   bool `json:"secure"`
}

type listView struct {
	Registered  []string `json:"registered"`
	Intercepted []string `json:"intercepted"`
}

func fail(w http.ResponseWriter, status int, msg string) {
	codec.Respond(w, codec.JSON, status, errorBody{Error: msg})
}

func (a *api) schemes(w http.ResponseWriter, _ *http.Request) {
	codec.Respond(w, codec.JSON, http.StatusOK, a.d.Schemes.Snapshot())
}

func (a *api) standardSchemes(w http.ResponseWriter, _ *http.Request) {
	codec.Respond(w, codec.JSON, http.StatusOK, map[string][]string{"schemes": nonNil(a.d.Schemes.StandardSchemes())})
}

func (a *api) schemeArgs(w http.ResponseWriter, _ *http.Request) {
	codec.Respond(w, codec.JSON, http.StatusOK, map[string][]string{"args": nonNil(a.d.Schemes.Args())})
}

func (a *api) protocols(w http.ResponseWriter, r *http.Request) {
	rep, ok := a.query(r, protocol.Op{Kind: protocol.OpList})
	if !ok {
		fail(w, http.StatusServiceUnavailable, "routing context unavailable")
		return
	}
	codec.Respond(w, codec.JSON, http.StatusOK, listView{Registered: nonNil(rep.Registered), Intercepted: nonNil(rep.Intercepted)})
}

func (a *api) protocol(w http.ResponseWriter, r *http.Request) {
	s, ok := scheme.Normalize(httpx.URLParam(r, "scheme"))
	if !ok {
		fail(w, http.StatusBadRequest, "invalid scheme")
		return
	}
	a.describe(w, r, s)
}

func (a *api) resolve(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		fail(w, http.StatusBadRequest, "url is required")
		return
	}
	s, ok := protocol.SchemeOf(raw)
	if !ok {
		fail(w, http.StatusBadRequest, "url has no valid scheme")
		return
	}
	a.describe(w, r, s)
}

func (a *api) describe(w http.ResponseWriter, r *http.Request, s string) {
	rep, ok := a.query(r, protocol.Op{Kind: protocol.OpResolve, Scheme: s})
	if !ok {
		fail(w, http.StatusServiceUnavailable, "routing context unavailable")
		return
	}
	res := rep.Resolution
	v := ProtocolView{
		Scheme:   s,
		Served:   res.Source != protocol.SourceNone,
		Source:   res.Source.String(),
		Standard: a.d.Schemes.IsStandard(s),
		Secure:   a.d.Schemes.IsSecure(s),
	}
	if res.Handler != nil {
		v.Kind = res.Handler.Kind().String()
	}
	codec.Respond(w, codec.JSON, http.StatusOK, v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
